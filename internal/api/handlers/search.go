package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"medialog/internal/controllers"
	"medialog/internal/models"
)

// SearchHandler proxies catalogue search and detail lookups
type SearchHandler struct {
	searchCtrl *controllers.SearchController
	logger     *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchCtrl *controllers.SearchController, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		searchCtrl: searchCtrl,
		logger:     logger,
	}
}

// Search handles GET /api/search/{type}?query=...
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		respondMessage(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	mediaType := models.MediaType(mux.Vars(r)["type"])
	results, err := h.searchCtrl.Search(r.Context(), mediaType, query)
	if err != nil {
		h.respondSearchError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, results)
}

// Details handles GET /api/search/{type}/{id}
func (h *SearchHandler) Details(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	mediaType := models.MediaType(vars["type"])

	item, err := h.searchCtrl.Details(r.Context(), mediaType, models.ItemID(vars["id"]))
	if err != nil {
		h.respondSearchError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// respondSearchError distinguishes bad requests from upstream failures
func (h *SearchHandler) respondSearchError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrInvalidMediaType) {
		respondMessage(w, http.StatusBadRequest, "Invalid type")
		return
	}
	h.logger.WithError(err).Error("Catalogue request failed")
	respondMessage(w, http.StatusInternalServerError, "External API Error")
}
