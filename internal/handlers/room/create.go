package room

import (
	"encoding/json"
	"net/http"

	"coedit/internal/collab"
	"coedit/internal/utils"
)

type CreateRoomHandler struct {
	Collab *collab.Service
}

type CreateRoomRequest struct {
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
}

// ServeHTTP handles POST /api/rooms
func (h *CreateRoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "Invalid request body"})
		return
	}
	if req.Name == "" {
		utils.JSON(w, http.StatusBadRequest, utils.ErrorBody{Error: "name is required"})
		return
	}

	room, err := h.Collab.CreateRoom(r.Context(), req.Name, req.Language)
	if err != nil {
		utils.JSON(w, http.StatusInternalServerError, utils.ErrorBody{Error: "Failed to create room"})
		return
	}
	utils.JSON(w, http.StatusCreated, room)
}
