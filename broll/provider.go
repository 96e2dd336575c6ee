// Package broll searches stock-footage providers and turns the results into
// platform-ready clips.
package broll

import (
	"context"

	"clipforge/script"
)

// MediaItem is a single downloadable search result.
type MediaItem struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration,omitempty"`
}

// Provider searches a stock-media API for portrait footage or images.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, kind script.MediaKind) ([]MediaItem, error)
}
