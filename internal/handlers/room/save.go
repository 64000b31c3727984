package room

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coedit/internal/collab"
	"coedit/internal/utils"
)

type SaveRoomHandler struct {
	Collab *collab.Service
}

type SaveRoomResponse struct {
	Message string `json:"message"`
}

// ServeHTTP handles POST /api/rooms/{id}/save
func (h *SaveRoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	err := h.Collab.Save(r.Context(), roomID)
	if errors.Is(err, collab.ErrRoomNotFound) {
		utils.JSON(w, http.StatusNotFound, utils.ErrorBody{Error: "Room not found"})
		return
	} else if err != nil {
		utils.JSON(w, http.StatusInternalServerError, utils.ErrorBody{Error: "Failed to save file"})
		return
	}
	utils.JSON(w, http.StatusOK, SaveRoomResponse{Message: "File saved successfully"})
}
