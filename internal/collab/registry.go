package collab

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"coedit/internal/models"
	"coedit/internal/store"
	"coedit/internal/utils"
)

// ErrRoomNotFound is returned when a room id has neither a live entry nor a
// durable record.
var ErrRoomNotFound = errors.New("room not found")

// liveRoom is the authoritative in-memory copy of an active room. Every
// mutation and its fan-out happen under mu, which is what serializes
// operations per room and keeps broadcast order equal to mutation order.
type liveRoom struct {
	mu sync.Mutex

	id        string
	name      string
	language  string
	code      string
	createdAt time.Time
	updatedAt time.Time

	members map[string]models.Participant
	cursors map[string]models.CursorPosition
}

// memberList returns the current members sorted by id. Callers hold r.mu.
func (r *liveRoom) memberList() []models.Participant {
	out := make([]models.Participant, 0, len(r.members))
	for _, p := range r.members {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Registry is the live room table plus the global participant-to-room index.
// Durable records live in the store; a room is materialized here on first
// access after creation and the live entry is authoritative from then on.
//
// Lock order: registry.mu and a liveRoom's mu are never held together.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*liveRoom
	memberRoom map[string]string

	store store.RoomStore
}

func NewRegistry(st store.RoomStore) *Registry {
	return &Registry{
		rooms:      make(map[string]*liveRoom),
		memberRoom: make(map[string]string),
		store:      st,
	}
}

// CreateRoom allocates an id and persists a durable record. The live table is
// not touched; the room materializes on first join or access.
func (reg *Registry) CreateRoom(ctx context.Context, name, language string) (*models.Room, error) {
	id, err := utils.RandomTokenHex(16)
	if err != nil {
		return nil, fmt.Errorf("generate room id: %w", err)
	}
	if language == "" {
		language = "javascript"
	}
	now := time.Now().UTC()
	room := &models.Room{
		ID:        id,
		Name:      name,
		Code:      "",
		Language:  language,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := reg.store.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("persist room: %w", err)
	}
	return room, nil
}

// getOrMaterialize returns the live entry for roomID, loading the durable
// record and seeding empty member/cursor maps when the room is not yet live.
func (reg *Registry) getOrMaterialize(ctx context.Context, roomID string) (*liveRoom, error) {
	reg.mu.RLock()
	room, ok := reg.rooms[roomID]
	reg.mu.RUnlock()
	if ok {
		return room, nil
	}

	rec, err := reg.store.Get(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRoomNotFound
	} else if err != nil {
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	// another request may have materialized it while we read the store
	if room, ok := reg.rooms[roomID]; ok {
		return room, nil
	}
	room = &liveRoom{
		id:        rec.ID,
		name:      rec.Name,
		language:  rec.Language,
		code:      rec.Code,
		createdAt: rec.CreatedAt,
		updatedAt: rec.UpdatedAt,
		members:   make(map[string]models.Participant),
		cursors:   make(map[string]models.CursorPosition),
	}
	reg.rooms[roomID] = room
	return room, nil
}

// lookup returns the live entry or nil. It never touches the store: callers
// on the edit/cursor path want orphaned events against long-gone rooms to be
// no-ops, not resurrections.
func (reg *Registry) lookup(roomID string) *liveRoom {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.rooms[roomID]
}

func (reg *Registry) liveRoomIDs() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	return ids
}

// roomOf returns the room a participant is currently joined to, or "".
func (reg *Registry) roomOf(participantID string) string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.memberRoom[participantID]
}

func (reg *Registry) indexParticipant(participantID, roomID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.memberRoom[participantID] = roomID
}

// unindexParticipant clears the participant's index entry, but only if it
// still points at roomID — a rejoin elsewhere may have moved it already.
func (reg *Registry) unindexParticipant(participantID, roomID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.memberRoom[participantID] == roomID {
		delete(reg.memberRoom, participantID)
	}
}
