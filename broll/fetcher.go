package broll

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"clipforge/config"
	"clipforge/media"
	"clipforge/plan"
	"clipforge/script"
)

// Fetcher resolves planned clips into processed footage files. The primary
// provider is tried first; on error, empty results, or an exhausted rate
// budget the fallback takes over.
type Fetcher struct {
	primary    Provider
	fallback   Provider
	cache      Cache
	limiter    *RateLimiter
	resolution config.Resolution
	client     *http.Client
}

func NewFetcher(primary, fallback Provider, cache Cache, limiter *RateLimiter, res config.Resolution) *Fetcher {
	return &Fetcher{
		primary:    primary,
		fallback:   fallback,
		cache:      cache,
		limiter:    limiter,
		resolution: res,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchClip downloads and processes the footage for one planned clip,
// returning the path of the finished file under outDir.
func (f *Fetcher) FetchClip(ctx context.Context, cp plan.ClipPlan, outDir string) (string, error) {
	kind := cp.Source.Kind
	if kind == "" {
		kind = script.KindVideo
	}

	items, err := f.search(ctx, cp.Source.SearchQuery, kind)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", fmt.Errorf("no results for %q", cp.Source.SearchQuery)
	}

	item := items[0]
	outPath := filepath.Join(outDir, fmt.Sprintf("segment_%03d_clip_%03d.mp4", cp.SegmentID, cp.ClipIndex))

	ext := ".mp4"
	if kind == script.KindImage {
		ext = ".jpg"
	}
	tempPath := filepath.Join(outDir, fmt.Sprintf("temp_segment_%03d_clip_%03d%s", cp.SegmentID, cp.ClipIndex, ext))

	if err := f.download(ctx, item.URL, tempPath); err != nil {
		return "", err
	}
	defer os.Remove(tempPath)

	if kind == script.KindImage {
		if err := media.ImageToClip(tempPath, outPath, f.resolution, cp.DisplayDuration); err != nil {
			return "", err
		}
		return outPath, nil
	}

	if err := media.ProcessClip(tempPath, outPath, f.resolution, cp.DisplayDuration, cp.SpeedFactor); err != nil {
		return "", err
	}
	return outPath, nil
}

func (f *Fetcher) search(ctx context.Context, query string, kind script.MediaKind) ([]MediaItem, error) {
	items, err := f.searchOne(ctx, f.primary, query, kind)
	if err == nil && len(items) > 0 {
		return items, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("provider", f.primary.Name()).Str("query", query).
			Msg("primary provider failed, trying fallback")
	}
	if f.fallback == nil {
		return items, err
	}
	return f.searchOne(ctx, f.fallback, query, kind)
}

func (f *Fetcher) searchOne(ctx context.Context, p Provider, query string, kind script.MediaKind) ([]MediaItem, error) {
	if p == nil {
		return nil, fmt.Errorf("provider not configured")
	}

	if f.cache != nil {
		if items, ok := f.cache.Get(ctx, p.Name(), query, kind); ok {
			log.Debug().Str("provider", p.Name()).Str("query", query).Msg("search cache hit")
			return items, nil
		}
	}

	if f.limiter != nil && !f.limiter.Admit(p.Name()) {
		return nil, fmt.Errorf("%s hourly rate limit reached", p.Name())
	}

	items, err := p.Search(ctx, query, kind)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.cache.Put(ctx, p.Name(), query, kind, items)
	}
	return items, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", rawURL, resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
