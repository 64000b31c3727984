package room

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coedit/internal/collab"
	"coedit/internal/utils"
)

type JoinRoomHandler struct {
	Collab *collab.Service
}

type JoinRoomRequest struct {
	ParticipantID string `json:"participantId,omitempty"`
	Label         string `json:"label,omitempty"`
}

// ServeHTTP handles POST /api/rooms/{id}/join
func (h *JoinRoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "Invalid request body"})
		return
	}

	snap, err := h.Collab.Join(r.Context(), roomID, req.ParticipantID, req.Label)
	if errors.Is(err, collab.ErrRoomNotFound) {
		utils.JSON(w, http.StatusNotFound, utils.ErrorBody{Error: "Room not found"})
		return
	} else if err != nil {
		utils.JSON(w, http.StatusInternalServerError, utils.ErrorBody{Error: "Failed to join room"})
		return
	}
	utils.JSON(w, http.StatusOK, snap)
}
