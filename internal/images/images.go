// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package images selects featured image URLs for generated articles.
// With a Pexels API key it searches for a topical photo; otherwise (or on
// any error) it falls back to a curated default list, picked
// deterministically per topic.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"

	"github.com/pdiddy/article-forge/internal/httputil"
	"github.com/pdiddy/article-forge/pkg/types"
)

// defaultImages are curated ML/AI photos used when no Pexels key is
// configured or the search fails.
var defaultImages = []string{
	"https://images.pexels.com/photos/8439093/pexels-photo-8439093.jpeg",
	"https://images.pexels.com/photos/3861969/pexels-photo-3861969.jpeg",
	"https://images.pexels.com/photos/8386434/pexels-photo-8386434.jpeg",
	"https://images.pexels.com/photos/8438918/pexels-photo-8438918.jpeg",
	"https://images.pexels.com/photos/7516366/pexels-photo-7516366.jpeg",
}

// pexelsAPIURL is the Pexels search endpoint. Package-level var so tests
// can substitute an httptest server.
var pexelsAPIURL = "https://api.pexels.com/v1/search"

// Picker selects featured images. The zero value uses only the curated list.
type Picker struct {
	cfg    types.ImageConfig
	client *http.Client
}

// NewPicker builds a Picker from config. The HTTP client is only used when
// a Pexels API key is present.
func NewPicker(cfg types.ImageConfig) *Picker {
	return &Picker{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// FeaturedImage returns an image URL for the topic. Pexels search is
// best-effort: any error falls back to the curated list.
func (p *Picker) FeaturedImage(ctx context.Context, topic string) string {
	if p.cfg.PexelsAPIKey != "" {
		if u, err := p.searchPexels(ctx, topic); err == nil && u != "" {
			return u
		}
	}
	return defaultImage(topic)
}

// pexelsResponse is the subset of the Pexels search response we read.
type pexelsResponse struct {
	Photos []struct {
		Src struct {
			Landscape string `json:"landscape"`
			Large     string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// searchPexels queries the Pexels photo search API for one landscape photo.
func (p *Picker) searchPexels(ctx context.Context, topic string) (string, error) {
	q := url.Values{}
	q.Set("query", topic)
	q.Set("per_page", "1")
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pexelsAPIURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", p.cfg.PexelsAPIKey)
	if p.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", p.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, p.client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling Pexels API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Pexels API returned %d", resp.StatusCode)
	}

	var pr pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("decoding Pexels response: %w", err)
	}
	if len(pr.Photos) == 0 {
		return "", nil
	}

	src := pr.Photos[0].Src
	if src.Landscape != "" {
		return src.Landscape, nil
	}
	return src.Large, nil
}

// defaultImage assigns the same curated image to a topic on every run.
func defaultImage(topic string) string {
	h := fnv.New32a()
	h.Write([]byte(topic))
	return defaultImages[int(h.Sum32())%len(defaultImages)]
}
