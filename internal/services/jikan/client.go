package jikan

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"medialog/internal/models"
)

const baseURL = "https://api.jikan.moe/v4"

// Client handles communication with the Jikan (MyAnimeList) API. It
// serves the anime, manga and novel media types; novels are MAL manga
// entries filtered by type.
type Client struct {
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Jikan client. Jikan requires no API key.
func NewClient(logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// Entry is one anime or manga object in a Jikan response
type Entry struct {
	MalID    int64    `json:"mal_id"`
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Synopsis string   `json:"synopsis"`
	Score    *float64 `json:"score"`
	Images   struct {
		JPG struct {
			ImageURL string `json:"image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

type searchResponse struct {
	Data []Entry `json:"data"`
}

type detailResponse struct {
	Data Entry `json:"data"`
}

// Search queries the anime or manga endpoint and normalizes the results
func (c *Client) Search(ctx context.Context, mediaType models.MediaType, query string) ([]models.CatalogueItem, error) {
	endpoint, err := endpointFor(mediaType)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	// over-fetch so the novel filter still has something left
	params.Set("limit", "25")

	var response searchResponse
	requestURL := fmt.Sprintf("%s/%s?%s", baseURL, endpoint, params.Encode())
	if err := doRequest(ctx, c.httpClient, c.logger, requestURL, &response); err != nil {
		return nil, fmt.Errorf("jikan search failed: %w", err)
	}

	entries := response.Data
	if mediaType == models.MediaTypeNovel {
		entries = filterNovels(entries)
	}

	results := make([]models.CatalogueItem, 0, len(entries))
	for _, entry := range entries {
		results = append(results, entry.toCatalogueItem(mediaType))
	}
	return results, nil
}

// Details fetches one entry by MAL id
func (c *Client) Details(ctx context.Context, mediaType models.MediaType, id models.ItemID) (*models.CatalogueItem, error) {
	endpoint, err := endpointFor(mediaType)
	if err != nil {
		return nil, err
	}

	var response detailResponse
	requestURL := fmt.Sprintf("%s/%s/%s", baseURL, endpoint, url.PathEscape(string(id)))
	if err := doRequest(ctx, c.httpClient, c.logger, requestURL, &response); err != nil {
		return nil, fmt.Errorf("jikan details failed: %w", err)
	}

	item := response.Data.toCatalogueItem(mediaType)
	return &item, nil
}

func (e Entry) toCatalogueItem(mediaType models.MediaType) models.CatalogueItem {
	return models.CatalogueItem{
		ID:          models.ItemID(strconv.FormatInt(e.MalID, 10)),
		Title:       e.Title,
		Image:       e.Images.JPG.ImageURL,
		Description: e.Synopsis,
		Type:        mediaType,
		Score:       e.Score,
	}
}

// filterNovels keeps only MAL entries typed as novels
func filterNovels(entries []Entry) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Type == "Novel" || entry.Type == "Light Novel" {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func endpointFor(mediaType models.MediaType) (string, error) {
	switch mediaType {
	case models.MediaTypeAnime:
		return "anime", nil
	case models.MediaTypeManga, models.MediaTypeNovel:
		// novels live under MAL's manga catalogue
		return "manga", nil
	default:
		return "", fmt.Errorf("%w: %s", models.ErrInvalidMediaType, mediaType)
	}
}
