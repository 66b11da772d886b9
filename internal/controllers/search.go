package controllers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"medialog/internal/models"
	"medialog/internal/services/jikan"
	"medialog/internal/services/rawg"
	"medialog/internal/services/tmdb"
)

// SearchController fans catalogue searches out to the provider matching
// the media type and normalizes what comes back. Results are ranked by
// title distance to the query and cached briefly to spare the providers.
type SearchController struct {
	tmdb   *tmdb.Client
	jikan  *jikan.Client
	rawg   *rawg.Client
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewSearchController creates a new search controller with the given
// result cache lifetime
func NewSearchController(tmdbClient *tmdb.Client, jikanClient *jikan.Client, rawgClient *rawg.Client, cacheTTL time.Duration, logger *logrus.Logger) *SearchController {
	return &SearchController{
		tmdb:   tmdbClient,
		jikan:  jikanClient,
		rawg:   rawgClient,
		cache:  cache.New(cacheTTL, 2*cacheTTL),
		logger: logger,
	}
}

// Search queries the provider responsible for the media type
func (c *SearchController) Search(ctx context.Context, mediaType models.MediaType, query string) ([]models.CatalogueItem, error) {
	cacheKey := fmt.Sprintf("%s:%s", mediaType, strings.ToLower(query))
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]models.CatalogueItem), nil
	}

	var (
		results []models.CatalogueItem
		err     error
	)
	switch mediaType {
	case models.MediaTypeMovie, models.MediaTypeSeries:
		results, err = c.tmdb.Search(ctx, mediaType, query)
	case models.MediaTypeAnime, models.MediaTypeManga, models.MediaTypeNovel:
		results, err = c.jikan.Search(ctx, mediaType, query)
	case models.MediaTypeGame:
		results, err = c.rawg.Search(ctx, query)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidMediaType, mediaType)
	}
	if err != nil {
		return nil, err
	}

	rankByTitle(results, query)
	c.cache.Set(cacheKey, results, cache.DefaultExpiration)

	c.logger.WithFields(logrus.Fields{
		"type":  mediaType,
		"count": len(results),
	}).Debug("Catalogue search completed")

	return results, nil
}

// Details fetches full provider metadata for one catalogue entry
func (c *SearchController) Details(ctx context.Context, mediaType models.MediaType, id models.ItemID) (*models.CatalogueItem, error) {
	switch mediaType {
	case models.MediaTypeMovie, models.MediaTypeSeries:
		return c.tmdb.Details(ctx, mediaType, id)
	case models.MediaTypeAnime, models.MediaTypeManga, models.MediaTypeNovel:
		return c.jikan.Details(ctx, mediaType, id)
	case models.MediaTypeGame:
		return c.rawg.Details(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidMediaType, mediaType)
	}
}

// rankByTitle orders results by edit distance between title and query,
// closest first. The sort is stable so provider order breaks ties.
func rankByTitle(results []models.CatalogueItem, query string) {
	q := strings.ToLower(query)
	type scored struct {
		index    int
		distance int
	}
	ranks := make([]scored, len(results))
	for i, result := range results {
		ranks[i] = scored{index: i, distance: levenshtein.ComputeDistance(strings.ToLower(result.Title), q)}
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].distance < ranks[j].distance
	})

	ordered := make([]models.CatalogueItem, len(results))
	for i, rank := range ranks {
		ordered[i] = results[rank.index]
	}
	copy(results, ordered)
}
