package controllers

import (
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"medialog/internal/models"
)

// DefaultTrendingLimit caps the ranking when the caller gives no limit
const DefaultTrendingLimit = 20

// TrendingController ranks items by how many local users track them.
// Pure read over the record store; rankings are cached and refreshed by
// the scheduler so request handling stays off the database.
type TrendingController struct {
	db     *models.Database
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewTrendingController creates a new trending controller whose cached
// rankings expire after ttl
func NewTrendingController(db *models.Database, ttl time.Duration, logger *logrus.Logger) *TrendingController {
	return &TrendingController{
		db:     db,
		cache:  cache.New(ttl, ttl),
		logger: logger,
	}
}

// Trending returns the top items for a media type, descending by the
// number of users tracking them. Ties keep first-encountered order.
func (c *TrendingController) Trending(mediaType models.MediaType, limit int) ([]models.TrendingEntry, error) {
	if _, err := models.StatusesFor(mediaType); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	entries, err := c.ranking(mediaType)
	if err != nil {
		return nil, err
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]models.TrendingEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Refresh recomputes and caches the ranking for every media type
func (c *TrendingController) Refresh() {
	for _, mediaType := range models.MediaTypes() {
		entries, err := c.compute(mediaType)
		if err != nil {
			c.logger.WithError(err).WithField("type", mediaType).Error("Failed to refresh trending")
			continue
		}
		c.cache.Set(string(mediaType), entries, cache.DefaultExpiration)
	}
	c.logger.Debug("Trending rankings refreshed")
}

func (c *TrendingController) ranking(mediaType models.MediaType) ([]models.TrendingEntry, error) {
	if cached, ok := c.cache.Get(string(mediaType)); ok {
		return cached.([]models.TrendingEntry), nil
	}

	entries, err := c.compute(mediaType)
	if err != nil {
		return nil, err
	}
	c.cache.Set(string(mediaType), entries, cache.DefaultExpiration)
	return entries, nil
}

// compute walks every user's buckets for one media type and counts
// occurrences per item id. The first occurrence's payload represents
// the item in the output.
func (c *TrendingController) compute(mediaType models.MediaType) ([]models.TrendingEntry, error) {
	records, err := c.db.Load()
	if err != nil {
		return nil, err
	}

	statuses, err := models.StatusesFor(mediaType)
	if err != nil {
		return nil, err
	}

	seen := make(map[models.ItemID]int)
	var entries []models.TrendingEntry
	for _, record := range records {
		buckets := record.Lists[mediaType]
		for _, status := range statuses {
			for _, item := range buckets[status] {
				if at, ok := seen[item.ID]; ok {
					entries[at].Count++
					continue
				}
				seen[item.ID] = len(entries)
				entries = append(entries, models.TrendingEntry{Item: item.Clone(), Count: 1})
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	return entries, nil
}
