package collab

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"coedit/internal/models"
	"coedit/internal/store"
	"coedit/internal/utils"
	"coedit/internal/ws"
)

const persistTimeout = 5 * time.Second

// Sender is the outbound side of the event channel table. Send returning
// false means the recipient has no open stream; broadcasters skip it.
type Sender interface {
	Send(participantID string, f ws.Frame) bool
	IsOpen(participantID string) bool
}

// JoinSnapshot is what a successful join returns to the caller: the full
// current room state plus the identity the caller is now known by.
type JoinSnapshot struct {
	RoomID        string               `json:"roomId"`
	RoomName      string               `json:"roomName"`
	Code          string               `json:"code"`
	Language      string               `json:"language"`
	ParticipantID string               `json:"participantId"`
	Members       []models.Participant `json:"members"`
}

// Service implements the presence and broadcast protocol over the live
// registry. Every mutating operation locks the target room, applies its
// registry change, fans the resulting event out to the other members, and
// only then releases the lock — that is the whole ordering story.
type Service struct {
	reg      *Registry
	store    store.RoomStore
	channels Sender
}

func NewService(st store.RoomStore, channels Sender) *Service {
	return &Service{
		reg:      NewRegistry(st),
		store:    st,
		channels: channels,
	}
}

// CreateRoom persists a new durable room record. See Registry.CreateRoom.
func (s *Service) CreateRoom(ctx context.Context, name, language string) (*models.Room, error) {
	return s.reg.CreateRoom(ctx, name, language)
}

// GetRoom reads the durable record for roomID.
func (s *Service) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	rec, err := s.store.Get(ctx, roomID)
	if err == store.ErrNotFound {
		return nil, ErrRoomNotFound
	}
	return rec, err
}

// Join adds the participant to the room, materializing it from the store if
// needed. An empty participantID gets a generated identity; the assigned id
// comes back in the snapshot. Rejoining under the same id replaces the old
// entry rather than duplicating it, and joining a new room implicitly leaves
// the previous one — an identity is in at most one room at a time.
func (s *Service) Join(ctx context.Context, roomID, participantID, label string) (*JoinSnapshot, error) {
	if participantID == "" {
		suffix, err := utils.RandomTokenHex(4)
		if err != nil {
			return nil, fmt.Errorf("generate participant id: %w", err)
		}
		participantID = "user_" + suffix
	}
	if label == "" {
		label = participantID
	}

	room, err := s.reg.getOrMaterialize(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if prev := s.reg.roomOf(participantID); prev != "" && prev != roomID {
		s.Leave(prev, participantID)
	}
	s.reg.indexParticipant(participantID, roomID)

	room.mu.Lock()
	defer room.mu.Unlock()
	room.members[participantID] = models.Participant{ID: participantID, Label: label}
	members := room.memberList()

	snap := &JoinSnapshot{
		RoomID:        room.id,
		RoomName:      room.name,
		Code:          room.code,
		Language:      room.language,
		ParticipantID: participantID,
		Members:       members,
	}
	s.broadcast(room, participantID, userJoined(participantID, members))
	return snap, nil
}

// Edit replaces the room's document text and notifies the other members.
// A room absent from the live registry makes this a silent no-op: late events
// against long-gone rooms must not resurrect them. Persistence is
// write-through, fire-and-forget; a durable failure never fails the edit.
func (s *Service) Edit(roomID, participantID, code string) {
	room := s.reg.lookup(roomID)
	if room == nil {
		return
	}

	now := time.Now().UTC()
	room.mu.Lock()
	room.code = code
	room.updatedAt = now
	s.broadcast(room, participantID, codeUpdated(code, participantID))
	room.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.store.Put(ctx, roomID, code, now); err != nil {
			logrus.Warnf("write-through failed for room %s: %v", roomID, err)
		}
	}()
}

// CursorMove records the participant's cursor and fans it out. No-op when the
// room is not live or the participant is not a member.
func (s *Service) CursorMove(roomID, participantID string, pos models.CursorPosition) {
	room := s.reg.lookup(roomID)
	if room == nil {
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()
	if _, ok := room.members[participantID]; !ok {
		return
	}
	room.cursors[participantID] = pos
	s.broadcast(room, participantID, cursorUpdated(participantID, pos))
}

// Save synchronously checkpoints the current document text to the store.
// Unlike the edit path, a persistence failure here is the caller's problem.
func (s *Service) Save(ctx context.Context, roomID string) error {
	room := s.reg.lookup(roomID)
	if room == nil {
		return ErrRoomNotFound
	}

	now := time.Now().UTC()
	room.mu.Lock()
	room.updatedAt = now
	code := room.code
	room.mu.Unlock()

	if err := s.store.Put(ctx, roomID, code, now); err != nil {
		return fmt.Errorf("save room %s: %w", roomID, err)
	}
	return nil
}

// Leave removes the participant from the room and tells everyone still there.
// The leaver has no exclusion to apply: its channel, if any, simply is not in
// the remaining member set. No-op for unknown rooms or non-members.
func (s *Service) Leave(roomID, participantID string) {
	room := s.reg.lookup(roomID)
	if room == nil {
		return
	}

	room.mu.Lock()
	if _, ok := room.members[participantID]; !ok {
		room.mu.Unlock()
		return
	}
	delete(room.members, participantID)
	delete(room.cursors, participantID)
	remaining := room.memberList()
	s.broadcast(room, "", userLeft(participantID, remaining))
	room.mu.Unlock()

	s.reg.unindexParticipant(participantID, roomID)
}

// broadcast fans a frame out to every member except exclude. Callers hold the
// room's mutex, so fan-out for one operation finishes before the next
// operation's begins. Recipients without an open channel are skipped.
func (s *Service) broadcast(room *liveRoom, exclude string, f ws.Frame) {
	for id := range room.members {
		if id == exclude {
			continue
		}
		s.channels.Send(id, f)
	}
}
