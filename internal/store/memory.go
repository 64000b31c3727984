package store

import (
	"context"
	"sync"
	"time"

	"coedit/internal/models"
)

// MemoryStore is a map-backed RoomStore. Used by tests and as a fallback when
// running without a database.
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string]models.Room

	// FailPut makes every Put return this error. Test hook.
	FailPut error
}

func NewMemory() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]models.Room)}
}

func (s *MemoryStore) Create(ctx context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = *room
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) Put(ctx context.Context, id, code string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPut != nil {
		return s.FailPut
	}
	r, ok := s.rooms[id]
	if !ok {
		// upsert: a put against an unknown id still records the document
		r = models.Room{ID: id}
	}
	r.Code = code
	r.UpdatedAt = updatedAt
	s.rooms[id] = r
	return nil
}
