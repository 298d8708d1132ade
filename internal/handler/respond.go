package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dev-bsvit/blog-gpt5/internal/port/repository"
	"github.com/dev-bsvit/blog-gpt5/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// noStore marks per-user state responses uncacheable.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, usecase.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, usecase.ErrEmptyComment):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "text required"})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
