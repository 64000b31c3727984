package room

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coedit/internal/collab"
	"coedit/internal/models"
	"coedit/internal/utils"
)

type CursorHandler struct {
	Collab *collab.Service
}

type CursorRequest struct {
	ParticipantID string                `json:"participantId"`
	Position      models.CursorPosition `json:"position"`
}

// ServeHTTP handles POST /api/rooms/{id}/cursor
func (h *CursorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req CursorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "Invalid request body"})
		return
	}
	if req.ParticipantID == "" {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "participantId is required"})
		return
	}

	h.Collab.CursorMove(roomID, req.ParticipantID, req.Position)
	utils.JSON(w, http.StatusOK, SuccessResponse{Success: true})
}
