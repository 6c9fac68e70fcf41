package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"claims-api/internal/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps repository/service sentinels onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case errors.ErrNotFound:
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.ErrInsufficientPermission:
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.ErrInvalidInput:
		http.Error(w, "Invalid input", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ParsePaginationParams - Utility to parse pagination query parameters
func ParsePaginationParams(r *http.Request) (int, int) {
	limit := 20
	offset := 0

	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	return limit, offset
}
