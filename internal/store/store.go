package store

import (
	"context"
	"errors"
	"time"

	"coedit/internal/models"
)

// ErrNotFound is returned when no durable record exists for a room id.
var ErrNotFound = errors.New("room not found")

// RoomStore is the durable side of a room: a checkpoint written through from the
// live registry, and the record a room is materialized from on first access.
type RoomStore interface {
	// Create inserts a new room record.
	Create(ctx context.Context, room *models.Room) error
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Room, error)
	// Put upserts the document text and updated timestamp for id.
	Put(ctx context.Context, id, code string, updatedAt time.Time) error
}
