package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/springdish/v1/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Youtube: config.YoutubeConfig{
			APIKey:         "yt-key",
			BaseURL:        server.URL,
			MaxResults:     1,
			TimeoutSeconds: 2,
		},
	}
	return NewClient(cfg, zap.NewNop())
}

func TestSearchReturnsTopVideo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kimchi stew recipe", r.URL.Query().Get("q"))
		assert.Equal(t, "yt-key", r.URL.Query().Get("key"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": map[string]string{"videoId": "abc123"}},
			},
		})
	})

	ref := client.Search(context.Background(), "kimchi stew recipe")

	assert.Equal(t, "abc123", ref.VideoID)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", ref.Link)
	assert.Equal(t, "https://img.youtube.com/vi/abc123/hqdefault.jpg", ref.ThumbnailURL)
	assert.False(t, ref.IsFallback())
}

func TestSearchEmptyResultsFallsBack(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
	})

	ref := client.Search(context.Background(), "kimchi stew")

	assert.True(t, ref.IsFallback())
	assert.Equal(t, "https://www.youtube.com/results?search_query=kimchi+stew", ref.Link)
}

func TestSearchUpstreamErrorFallsBack(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	})

	ref := client.Search(context.Background(), "kimchi stew")

	assert.True(t, ref.IsFallback())
	assert.Contains(t, ref.Link, "search_query=kimchi+stew")
}

func TestSearchWithoutAPIKeyFallsBack(t *testing.T) {
	client := NewClient(&config.Config{
		Youtube: config.YoutubeConfig{BaseURL: "http://unused", MaxResults: 1, TimeoutSeconds: 1},
	}, zap.NewNop())

	ref := client.Search(context.Background(), "spicy noodles")

	assert.True(t, ref.IsFallback())
	assert.Equal(t, "https://www.youtube.com/results?search_query=spicy+noodles", ref.Link)
}
