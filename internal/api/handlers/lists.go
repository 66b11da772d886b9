package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"medialog/internal/api/middleware"
	"medialog/internal/controllers"
	"medialog/internal/models"
)

// ListsHandler binds the list engine to the /api/list routes. The user
// id always comes from the auth middleware, never from the payload.
type ListsHandler struct {
	listCtrl *controllers.ListController
	logger   *logrus.Logger
}

// NewListsHandler creates a new lists handler
func NewListsHandler(listCtrl *controllers.ListController, logger *logrus.Logger) *ListsHandler {
	return &ListsHandler{
		listCtrl: listCtrl,
		logger:   logger,
	}
}

type addItemRequest struct {
	Type   models.MediaType `json:"type"`
	Status models.Status    `json:"status"`
	Item   *models.ListItem `json:"item"`
}

// Get handles GET /api/list
func (h *ListsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	lists, err := h.listCtrl.GetLists(userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, lists)
}

// Add handles POST /api/list
func (h *ListsHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.Type == "" || req.Item == nil {
		respondMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	item, err := h.listCtrl.AddItem(userID, req.Type, req.Item, req.Status)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Item added to list",
		"item":    item,
	})
}

// Update handles PUT /api/list/{type}/{id}
func (h *ListsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	vars := mux.Vars(r)
	var update models.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	item, err := h.listCtrl.UpdateItem(userID, models.MediaType(vars["type"]), models.ItemID(vars["id"]), update)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Item updated",
		"item":    item,
	})
}

// Remove handles DELETE /api/list/{type}/{id}
func (h *ListsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	vars := mux.Vars(r)
	if err := h.listCtrl.RemoveItem(userID, models.MediaType(vars["type"]), models.ItemID(vars["id"])); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondMessage(w, http.StatusOK, "Item removed from list")
}
