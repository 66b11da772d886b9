package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"medialog/internal/config"
	"medialog/internal/models"
)

const (
	baseURL     = "https://api.themoviedb.org/3"
	imagePrefix = "https://image.tmdb.org/t/p/w500"
)

// Client handles communication with the TMDB API. It serves the movie
// and series media types; TMDB calls series "tv".
type Client struct {
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new TMDB client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}

	return &Client{
		apiKey:     cfg.TMDBAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// entry covers both movie and tv payloads; movies use title, tv uses name
type entry struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Name        string  `json:"name"`
	PosterPath  *string `json:"poster_path"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
}

type searchResponse struct {
	Results []entry `json:"results"`
}

// Search queries TMDB's movie or tv search and normalizes the results
func (c *Client) Search(ctx context.Context, mediaType models.MediaType, query string) ([]models.CatalogueItem, error) {
	endpoint, err := endpointFor(mediaType)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)

	var response searchResponse
	path := fmt.Sprintf("/search/%s", endpoint)
	if err := c.doRequest(ctx, path, params, &response); err != nil {
		return nil, fmt.Errorf("tmdb search failed: %w", err)
	}

	results := make([]models.CatalogueItem, 0, len(response.Results))
	for _, e := range response.Results {
		results = append(results, e.toCatalogueItem(mediaType))
	}
	return results, nil
}

// Details fetches one movie or tv entry by TMDB id
func (c *Client) Details(ctx context.Context, mediaType models.MediaType, id models.ItemID) (*models.CatalogueItem, error) {
	endpoint, err := endpointFor(mediaType)
	if err != nil {
		return nil, err
	}

	var e entry
	path := fmt.Sprintf("/%s/%s", endpoint, url.PathEscape(string(id)))
	if err := c.doRequest(ctx, path, url.Values{}, &e); err != nil {
		return nil, fmt.Errorf("tmdb details failed: %w", err)
	}

	item := e.toCatalogueItem(mediaType)
	return &item, nil
}

// doRequest performs an authenticated GET against TMDB. v4 keys (JWTs,
// recognizable by their dots) go in a Bearer header, v3 keys as the
// api_key query parameter.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	bearer := strings.Contains(c.apiKey, ".")
	if !bearer {
		params.Set("api_key", c.apiKey)
	}

	requestURL := baseURL + path
	if encoded := params.Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	operation := func() error {
		c.logger.WithField("path", path).Debug("Making TMDB API request")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		if bearer {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("API request failed with status %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes)))
		}

		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}

		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 15 * time.Second
	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}

func (e entry) toCatalogueItem(mediaType models.MediaType) models.CatalogueItem {
	title := e.Title
	if title == "" {
		title = e.Name
	}

	var image string
	if e.PosterPath != nil && *e.PosterPath != "" {
		image = imagePrefix + *e.PosterPath
	}

	score := e.VoteAverage
	return models.CatalogueItem{
		ID:          models.ItemID(strconv.FormatInt(e.ID, 10)),
		Title:       title,
		Image:       image,
		Description: e.Overview,
		Type:        mediaType,
		Score:       &score,
	}
}

func endpointFor(mediaType models.MediaType) (string, error) {
	switch mediaType {
	case models.MediaTypeMovie:
		return "movie", nil
	case models.MediaTypeSeries:
		return "tv", nil
	default:
		return "", fmt.Errorf("%w: %s", models.ErrInvalidMediaType, mediaType)
	}
}
