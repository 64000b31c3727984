package room

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coedit/internal/collab"
	"coedit/internal/utils"
)

type EditCodeHandler struct {
	Collab *collab.Service
}

type EditCodeRequest struct {
	Code          string `json:"code"`
	ParticipantID string `json:"participantId"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// ServeHTTP handles POST /api/rooms/{id}/code
func (h *EditCodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req EditCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "Invalid request body"})
		return
	}
	if req.ParticipantID == "" {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "participantId is required"})
		return
	}

	// an edit against a room that is not live is a deliberate no-op
	h.Collab.Edit(roomID, req.ParticipantID, req.Code)
	utils.JSON(w, http.StatusOK, SuccessResponse{Success: true})
}
