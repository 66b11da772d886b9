package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"medialog/internal/controllers"
	"medialog/internal/models"
)

// TrendingHandler serves the locally aggregated popularity ranking
type TrendingHandler struct {
	trendingCtrl *controllers.TrendingController
	logger       *logrus.Logger
}

// NewTrendingHandler creates a new trending handler
func NewTrendingHandler(trendingCtrl *controllers.TrendingController, logger *logrus.Logger) *TrendingHandler {
	return &TrendingHandler{
		trendingCtrl: trendingCtrl,
		logger:       logger,
	}
}

// Trending handles GET /api/search/trending/{type}?limit=...
func (h *TrendingHandler) Trending(w http.ResponseWriter, r *http.Request) {
	mediaType := models.MediaType(mux.Vars(r)["type"])

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.trendingCtrl.Trending(mediaType, limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	// an empty ranking is [] on the wire, not null
	if entries == nil {
		entries = []models.TrendingEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}
