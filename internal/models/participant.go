package models

// CursorPosition is a whole-document coordinate, zero-based.
type CursorPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Participant is one connected editor identity inside a room. Not persisted;
// lives only in the collab registry between join and leave/eviction.
type Participant struct {
	ID    string `json:"participantId"`
	Label string `json:"label,omitempty"`
}
