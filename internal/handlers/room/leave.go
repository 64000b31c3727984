package room

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coedit/internal/collab"
	"coedit/internal/utils"
)

type LeaveRoomHandler struct {
	Collab *collab.Service
}

type LeaveRoomRequest struct {
	ParticipantID string `json:"participantId"`
}

// ServeHTTP handles POST /api/rooms/{id}/leave
func (h *LeaveRoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	var req LeaveRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "Invalid request body"})
		return
	}
	if req.ParticipantID == "" {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "participantId is required"})
		return
	}

	h.Collab.Leave(roomID, req.ParticipantID)
	utils.JSON(w, http.StatusOK, SuccessResponse{Success: true})
}
