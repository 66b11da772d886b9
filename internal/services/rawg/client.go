package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"medialog/internal/config"
	"medialog/internal/models"
)

const baseURL = "https://api.rawg.io/api"

// Client handles communication with the RAWG games API
type Client struct {
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new RAWG client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.RAWGAPIKey == "" {
		return nil, fmt.Errorf("RAWG API key is required")
	}

	return &Client{
		apiKey:     cfg.RAWGAPIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

type entry struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	BackgroundImage string  `json:"background_image"`
	Rating          float64 `json:"rating"`
	// only present on the detail endpoint
	DescriptionRaw string `json:"description_raw"`
}

type searchResponse struct {
	Results []entry `json:"results"`
}

// Search queries RAWG's game search and normalizes the results. RAWG
// search listings carry no description; that needs a Details call.
func (c *Client) Search(ctx context.Context, query string) ([]models.CatalogueItem, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("page_size", "25")

	var response searchResponse
	if err := c.doRequest(ctx, "/games", params, &response); err != nil {
		return nil, fmt.Errorf("rawg search failed: %w", err)
	}

	results := make([]models.CatalogueItem, 0, len(response.Results))
	for _, e := range response.Results {
		results = append(results, e.toCatalogueItem())
	}
	return results, nil
}

// Details fetches one game by RAWG id
func (c *Client) Details(ctx context.Context, id models.ItemID) (*models.CatalogueItem, error) {
	var e entry
	path := fmt.Sprintf("/games/%s", url.PathEscape(string(id)))
	if err := c.doRequest(ctx, path, url.Values{}, &e); err != nil {
		return nil, fmt.Errorf("rawg details failed: %w", err)
	}

	item := e.toCatalogueItem()
	return &item, nil
}

// doRequest performs a keyed GET against RAWG with retries on transport
// errors and 5xx responses
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	params.Set("key", c.apiKey)
	requestURL := fmt.Sprintf("%s%s?%s", baseURL, path, params.Encode())

	operation := func() error {
		c.logger.WithField("path", path).Debug("Making RAWG API request")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
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

func (e entry) toCatalogueItem() models.CatalogueItem {
	score := e.Rating
	return models.CatalogueItem{
		ID:          models.ItemID(strconv.FormatInt(e.ID, 10)),
		Title:       e.Name,
		Image:       e.BackgroundImage,
		Description: e.DescriptionRaw,
		Type:        models.MediaTypeGame,
		Score:       &score,
	}
}
