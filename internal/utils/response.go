package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error-as-value shape returned on expected failures,
// e.g. {"error": "Room not found"}.
type ErrorBody struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
