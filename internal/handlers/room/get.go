package room

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coedit/internal/collab"
	"coedit/internal/utils"
)

type GetRoomHandler struct {
	Collab *collab.Service
}

// ServeHTTP handles GET /api/rooms/{id}
func (h *GetRoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	room, err := h.Collab.GetRoom(r.Context(), roomID)
	if errors.Is(err, collab.ErrRoomNotFound) {
		utils.JSON(w, http.StatusNotFound, utils.ErrorBody{Error: "Room not found"})
		return
	} else if err != nil {
		utils.JSON(w, http.StatusInternalServerError, utils.ErrorBody{Error: "Failed to load room"})
		return
	}
	utils.JSON(w, http.StatusOK, room)
}
