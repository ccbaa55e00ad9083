// Package youtube provides the companion video search adapter.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/springdish/v1/internal/domain/recipe"
	"github.com/springdish/v1/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Client implements outbound.VideoSearcher against the YouTube Data
// API. Search never fails: any upstream trouble degrades to a
// search-results link so the recipe always ships with a video.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	client     *http.Client
	logger     *zap.Logger
}

// NewClient creates a new YouTube client
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		apiKey:     cfg.Youtube.APIKey,
		baseURL:    strings.TrimSuffix(cfg.Youtube.BaseURL, "/"),
		maxResults: cfg.Youtube.MaxResults,
		client: &http.Client{
			Timeout: time.Duration(cfg.Youtube.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// Search finds the best matching cooking video for the query.
func (c *Client) Search(ctx context.Context, query string) recipe.VideoRef {
	if c.apiKey == "" {
		return recipe.FallbackVideoRef(query)
	}

	videoID, err := c.search(ctx, query)
	if err != nil {
		c.logger.Warn("Video search failed, using fallback link",
			zap.String("query", query),
			zap.Error(err))
		return recipe.FallbackVideoRef(query)
	}
	if videoID == "" {
		return recipe.FallbackVideoRef(query)
	}

	return recipe.NewVideoRef(videoID)
}

func (c *Client) search(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "video")
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("malformed search response: %w", err)
	}

	if len(result.Items) == 0 {
		return "", nil
	}
	return result.Items[0].ID.VideoID, nil
}
