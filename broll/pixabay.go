package broll

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"clipforge/config"
	"clipforge/script"
)

const (
	pixabayVideoURL = "https://pixabay.com/api/videos/"
	pixabayPhotoURL = "https://pixabay.com/api/"
)

// PixabayProvider searches the Pixabay API. The key travels as a query
// parameter.
type PixabayProvider struct {
	apiKey string
	client *http.Client
}

func NewPixabayProvider(apiKey string) *PixabayProvider {
	return &PixabayProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *PixabayProvider) Name() string { return "pixabay" }

func (p *PixabayProvider) Search(ctx context.Context, query string, kind script.MediaKind) ([]MediaItem, error) {
	base := pixabayPhotoURL
	if kind == script.KindVideo {
		base = pixabayVideoURL
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("q", query)
	params.Set("per_page", strconv.Itoa(config.SearchResultsPerPage))
	params.Set("orientation", "vertical")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build pixabay request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pixabay search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pixabay search %q: status %d", query, resp.StatusCode)
	}

	var body pixabayResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode pixabay results for %q: %w", query, err)
	}

	items := make([]MediaItem, 0, len(body.Hits))
	for _, hit := range body.Hits {
		if kind == script.KindVideo {
			file := hit.Videos.Medium
			if file.URL == "" {
				file = hit.Videos.Small
			}
			if file.URL == "" {
				continue
			}
			items = append(items, MediaItem{URL: file.URL, Duration: hit.Duration})
			continue
		}
		if hit.LargeImageURL == "" {
			continue
		}
		items = append(items, MediaItem{URL: hit.LargeImageURL})
	}
	return items, nil
}

type pixabayVideoFile struct {
	URL string `json:"url"`
}

type pixabayHit struct {
	Duration float64 `json:"duration"`
	Videos   struct {
		Medium pixabayVideoFile `json:"medium"`
		Small  pixabayVideoFile `json:"small"`
	} `json:"videos"`
	LargeImageURL string `json:"largeImageURL"`
}

type pixabayResponse struct {
	Hits []pixabayHit `json:"hits"`
}
