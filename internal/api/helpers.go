package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/replaylens/replaylens/internal/apperr"
	"github.com/replaylens/replaylens/internal/logger"
)

func respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// plyParam parses the {ply} path segment.
func plyParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "ply")
	ply, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.NewValidationError("ply", fmt.Sprintf("%q is not a number", raw))
	}
	return ply, nil
}
