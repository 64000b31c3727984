package models

import "time"

// Room is the durable record of a shared editing session. The live copy in the
// collab registry is authoritative while the room is active; this struct is the
// checkpoint the store holds.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
