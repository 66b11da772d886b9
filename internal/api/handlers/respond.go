package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"medialog/internal/models"
	"medialog/internal/services/auth"
)

// respondJSON writes a JSON payload with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondMessage writes the {"message": ...} shape every non-payload
// response uses
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondError maps the domain error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a 500 and gets logged.
func respondError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		respondMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, models.ErrItemNotFound):
		respondMessage(w, http.StatusNotFound, "Item not found in list")
	case errors.Is(err, models.ErrInvalidMediaType):
		respondMessage(w, http.StatusBadRequest, "Invalid type")
	case errors.Is(err, models.ErrInvalidStatus):
		respondMessage(w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, models.ErrInvalidItem):
		respondMessage(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, models.ErrDuplicateItem):
		respondMessage(w, http.StatusBadRequest, "Item already in list")
	case errors.Is(err, auth.ErrMissingFields):
		respondMessage(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, auth.ErrUserExists):
		respondMessage(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondMessage(w, http.StatusBadRequest, "Invalid credentials")
	default:
		logger.WithError(err).Error("Request failed")
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
