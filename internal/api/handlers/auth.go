package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"medialog/internal/services/auth"
)

// AuthHandler handles registration and login requests
type AuthHandler struct {
	authSvc *auth.Service
	logger  *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *auth.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		logger:  logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if _, err := h.authSvc.Register(req.Username, req.Email, req.Password); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondMessage(w, http.StatusCreated, "User created successfully")
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	token, record, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": userView{
			ID:       record.ID,
			Username: record.Username,
			Email:    record.Email,
		},
	})
}
