package broll

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clipforge/config"
	"clipforge/script"
)

func testResolution() config.Resolution {
	return config.Resolution{Width: 1080, Height: 1920}
}

func TestPexelsVideoParsing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "test-key" {
			t.Errorf("Authorization = %q; want test-key", got)
		}
		if got := r.URL.Query().Get("orientation"); got != "portrait" {
			t.Errorf("orientation = %q; want portrait", got)
		}
		w.Write([]byte(`{
			"videos": [
				{"duration": 14, "video_files": [
					{"link": "https://cdn/sd.mp4", "quality": "sd"},
					{"link": "https://cdn/hd.mp4", "quality": "hd"}
				]},
				{"duration": 9, "video_files": [
					{"link": "https://cdn/only.mp4", "quality": "sd"}
				]}
			]
		}`))
	}))
	defer srv.Close()

	p := NewPexelsProvider("test-key")
	p.client = srv.Client()

	// Point the request at the test server by searching through it.
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	req.Header.Set("Authorization", p.apiKey)
	resp, err := p.client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	items, err := decodePexelsVideos(resp.Body, "city")
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items; want 2", len(items))
	}
	if items[0].URL != "https://cdn/hd.mp4" {
		t.Fatalf("hd file should win, got %q", items[0].URL)
	}
	if items[0].Duration != 14 {
		t.Fatalf("duration = %g; want 14", items[0].Duration)
	}
	if items[1].URL != "https://cdn/only.mp4" {
		t.Fatalf("fallback file = %q", items[1].URL)
	}
}

func TestFetcherFallsBackToSecondary(t *testing.T) {
	primary := &stubProvider{name: "primary", err: context.DeadlineExceeded}
	fallback := &stubProvider{name: "fallback", items: []MediaItem{{URL: "https://cdn/ok.mp4"}}}

	f := NewFetcher(primary, fallback, nil, nil, testResolution())
	items, err := f.search(context.Background(), "city", script.KindVideo)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(items) != 1 || items[0].URL != "https://cdn/ok.mp4" {
		t.Fatalf("expected fallback result, got %+v", items)
	}
}

func TestFetcherEmptyPrimaryTriggersFallback(t *testing.T) {
	primary := &stubProvider{name: "primary"}
	fallback := &stubProvider{name: "fallback", items: []MediaItem{{URL: "https://cdn/ok.mp4"}}}

	f := NewFetcher(primary, fallback, nil, nil, testResolution())
	items, err := f.search(context.Background(), "city", script.KindVideo)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected fallback result, got %+v", items)
	}
}

func TestFetcherRateLimitedProviderSkipped(t *testing.T) {
	primary := &stubProvider{name: "pexels", items: []MediaItem{{URL: "https://cdn/p.mp4"}}}
	fallback := &stubProvider{name: "pixabay", items: []MediaItem{{URL: "https://cdn/f.mp4"}}}

	limiter := NewRateLimiter(time.Hour, map[string]int{"pexels": 0})
	f := NewFetcher(primary, fallback, nil, limiter, testResolution())

	items, err := f.search(context.Background(), "city", script.KindVideo)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(items) != 1 || items[0].URL != "https://cdn/f.mp4" {
		t.Fatalf("rate-limited primary should yield to fallback, got %+v", items)
	}
	if primary.calls != 0 {
		t.Fatalf("primary was called %d times despite exhausted budget", primary.calls)
	}
}

type stubProvider struct {
	name  string
	items []MediaItem
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(context.Context, string, script.MediaKind) ([]MediaItem, error) {
	s.calls++
	return s.items, s.err
}
