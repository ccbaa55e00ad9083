package recipe

import (
	"fmt"
	"net/url"
	"strings"
)

// Value Objects - Immutable objects that describe aspects of the domain

// GeneratedRecipe is the structured output the generation model must
// produce. Parsing is all-or-nothing: a recipe with any required field
// missing or empty is rejected whole.
type GeneratedRecipe struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Steps       []string `json:"steps"`
	Ingredients []string `json:"ingredients"`
	Seasonings  []string `json:"seasonings"`
}

// Validate enforces the strict generation contract.
func (g GeneratedRecipe) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(g.Subtitle) == "" {
		return ErrMissingSubtitle
	}
	if len(g.Steps) == 0 {
		return ErrMissingSteps
	}
	for _, s := range g.Steps {
		if strings.TrimSpace(s) == "" {
			return ErrBlankStep
		}
	}
	if len(g.Ingredients) == 0 {
		return ErrMissingIngredients
	}
	return nil
}

// VideoRef points at a companion cooking video. When no concrete video
// could be found it degrades to a search-results link, with no video ID
// and no thumbnail.
type VideoRef struct {
	Link         string
	VideoID      string
	ThumbnailURL string
}

// NewVideoRef builds a reference to a concrete YouTube video.
func NewVideoRef(videoID string) VideoRef {
	return VideoRef{
		Link:         "https://www.youtube.com/watch?v=" + videoID,
		VideoID:      videoID,
		ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID),
	}
}

// FallbackVideoRef builds a search-results link for the given query.
// It never fails: whatever happens upstream, the recipe always ships
// with a usable link.
func FallbackVideoRef(query string) VideoRef {
	return VideoRef{
		Link: "https://www.youtube.com/results?search_query=" + url.QueryEscape(query),
	}
}

// IsFallback reports whether the reference is a search link rather
// than a concrete video.
func (v VideoRef) IsFallback() bool {
	return v.VideoID == ""
}
