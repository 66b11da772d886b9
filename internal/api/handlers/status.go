package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"medialog/internal/models"
)

// StatusHandler reports aggregate store statistics
type StatusHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalUsers    int            `json:"total_users"`
	TotalItems    int            `json:"total_items"`
	ItemsByType   map[string]int `json:"items_by_type"`
	ItemsByStatus map[string]int `json:"items_by_status"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	records, err := h.db.Load()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load user records")
		respondMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := StatusResponse{
		TotalUsers:    len(records),
		ItemsByType:   make(map[string]int),
		ItemsByStatus: make(map[string]int),
	}

	for _, record := range records {
		for mediaType, buckets := range record.Lists {
			for status, items := range buckets {
				response.TotalItems += len(items)
				response.ItemsByType[string(mediaType)] += len(items)
				response.ItemsByStatus[string(status)] += len(items)
			}
		}
	}

	respondJSON(w, http.StatusOK, response)
}
