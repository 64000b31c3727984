package collab

import (
	"coedit/internal/models"
	"coedit/internal/ws"
)

// Event types pushed over participant streams.
const (
	EventUserJoined    = "user_joined"
	EventUserLeft      = "user_left"
	EventCodeUpdated   = "code_updated"
	EventCursorUpdated = "cursor_updated"
)

type UserJoinedData struct {
	ParticipantID string               `json:"participantId"`
	Members       []models.Participant `json:"members"`
}

type UserLeftData struct {
	ParticipantID    string               `json:"participantId"`
	RemainingMembers []models.Participant `json:"remainingMembers"`
}

type CodeUpdatedData struct {
	Code     string `json:"code"`
	AuthorID string `json:"authorId"`
}

type CursorUpdatedData struct {
	AuthorID string                `json:"authorId"`
	Position models.CursorPosition `json:"position"`
}

func userJoined(participantID string, members []models.Participant) ws.Frame {
	return ws.Frame{Type: EventUserJoined, Data: UserJoinedData{ParticipantID: participantID, Members: members}}
}

func userLeft(participantID string, remaining []models.Participant) ws.Frame {
	return ws.Frame{Type: EventUserLeft, Data: UserLeftData{ParticipantID: participantID, RemainingMembers: remaining}}
}

func codeUpdated(code, authorID string) ws.Frame {
	return ws.Frame{Type: EventCodeUpdated, Data: CodeUpdatedData{Code: code, AuthorID: authorID}}
}

func cursorUpdated(authorID string, pos models.CursorPosition) ws.Frame {
	return ws.Frame{Type: EventCursorUpdated, Data: CursorUpdatedData{AuthorID: authorID, Position: pos}}
}
