// Package voice turns narration text into a spoken audio track.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"clipforge/media"
)

// Synthesizer renders text to speech and reports the duration of the
// resulting audio file in seconds.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceName, outPath string) (float64, error)
}

// HTTPSynthesizer talks to an OpenAI-compatible speech endpoint (LocalAI,
// Kokoro-FastAPI and friends) and writes the returned WAV to disk.
type HTTPSynthesizer struct {
	endpoint string
	model    string
	client   *http.Client
}

func NewHTTPSynthesizer(endpoint, model string) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		endpoint: endpoint,
		model:    model,
		client:   &http.Client{Timeout: 5 * time.Minute},
	}
}

type speechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text, voiceName, outPath string) (float64, error) {
	payload, err := json.Marshal(speechRequest{Model: s.model, Voice: voiceName, Input: text})
	if err != nil {
		return 0, fmt.Errorf("encode speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Info().Str("voice", voiceName).Int("chars", len(text)).Msg("synthesizing narration")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("speech request: status %d: %s", resp.StatusCode, body)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, fmt.Errorf("create audio dir: %w", err)
	}

	file, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", outPath, err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return 0, fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := file.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", outPath, err)
	}

	duration, err := media.ProbeDuration(outPath)
	if err != nil {
		return 0, fmt.Errorf("probe synthesized audio: %w", err)
	}
	log.Info().Float64("duration_s", duration).Str("path", outPath).Msg("narration synthesized")
	return duration, nil
}
