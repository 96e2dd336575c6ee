package broll

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"clipforge/config"
	"clipforge/script"
)

const (
	pexelsVideoURL = "https://api.pexels.com/videos/search"
	pexelsPhotoURL = "https://api.pexels.com/v1/search"
)

// PexelsProvider searches the Pexels API. Requests are authenticated with
// the raw API key in the Authorization header.
type PexelsProvider struct {
	apiKey string
	client *http.Client
}

func NewPexelsProvider(apiKey string) *PexelsProvider {
	return &PexelsProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *PexelsProvider) Name() string { return "pexels" }

func (p *PexelsProvider) Search(ctx context.Context, query string, kind script.MediaKind) ([]MediaItem, error) {
	base := pexelsPhotoURL
	if kind == script.KindVideo {
		base = pexelsVideoURL
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(config.SearchResultsPerPage))
	params.Set("orientation", "portrait")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build pexels request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pexels search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pexels search %q: status %d", query, resp.StatusCode)
	}

	if kind == script.KindVideo {
		return decodePexelsVideos(resp.Body, query)
	}
	return decodePexelsPhotos(resp.Body, query)
}

type pexelsVideoFile struct {
	Link    string `json:"link"`
	Quality string `json:"quality"`
}

type pexelsVideo struct {
	Duration   float64           `json:"duration"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsVideoResponse struct {
	Videos []pexelsVideo `json:"videos"`
}

func decodePexelsVideos(r io.Reader, query string) ([]MediaItem, error) {
	var body pexelsVideoResponse
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode pexels videos for %q: %w", query, err)
	}

	items := make([]MediaItem, 0, len(body.Videos))
	for _, v := range body.Videos {
		if len(v.VideoFiles) == 0 {
			continue
		}
		file := v.VideoFiles[0]
		for _, f := range v.VideoFiles {
			if f.Quality == "hd" {
				file = f
				break
			}
		}
		items = append(items, MediaItem{URL: file.Link, Duration: v.Duration})
	}
	return items, nil
}

type pexelsPhoto struct {
	Src struct {
		Large2x string `json:"large2x"`
		Large   string `json:"large"`
	} `json:"src"`
}

type pexelsPhotoResponse struct {
	Photos []pexelsPhoto `json:"photos"`
}

func decodePexelsPhotos(r io.Reader, query string) ([]MediaItem, error) {
	var body pexelsPhotoResponse
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode pexels photos for %q: %w", query, err)
	}

	items := make([]MediaItem, 0, len(body.Photos))
	for _, ph := range body.Photos {
		u := ph.Src.Large2x
		if u == "" {
			u = ph.Src.Large
		}
		if u == "" {
			continue
		}
		items = append(items, MediaItem{URL: u})
	}
	return items, nil
}
