// Package publish pushes finished videos to external destinations. Every
// destination is optional: publish failures degrade the run, never fail it.
package publish

import (
	"context"

	"github.com/rs/zerolog/log"

	"clipforge/script"
)

// Publisher sends a finished artifact somewhere off-box.
type Publisher interface {
	Publish(ctx context.Context, videoPath string, sc *script.Script) error
}

// Multi fans a video out to several publishers, attempting all of them and
// reporting the last error.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, videoPath string, sc *script.Script) error {
	var last error
	for _, p := range m {
		if err := p.Publish(ctx, videoPath, sc); err != nil {
			log.Warn().Err(err).Msg("publisher failed")
			last = err
		}
	}
	return last
}
