// Package transcript extracts word-level timestamps from narration audio.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"clipforge/timing"
)

// Transcriber produces word-level timestamps for an audio file.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath, workDir string) ([]timing.WordTimestamp, error)
}

// WhisperCPP shells out to the whisper.cpp binary and reads its JSON output.
type WhisperCPP struct {
	bin   string
	model string
}

func NewWhisperCPP(binPath, modelPath string) *WhisperCPP {
	return &WhisperCPP{bin: binPath, model: modelPath}
}

type whisperWord struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

type whisperSegment struct {
	Start float64       `json:"start"`
	End   float64       `json:"end"`
	Text  string        `json:"text"`
	Words []whisperWord `json:"words"`
}

type whisperOutput struct {
	Segments []whisperSegment `json:"segments"`
}

func (w *WhisperCPP) Transcribe(ctx context.Context, wavPath, workDir string) ([]timing.WordTimestamp, error) {
	outPrefix := filepath.Join(workDir, "whisper")
	args := []string{
		"-m", w.model,
		"-f", wavPath,
		"-oj",
		"-of", outPrefix,
	}

	log.Info().Str("bin", w.bin).Str("audio", wavPath).Msg("transcribing narration")

	cmd := exec.CommandContext(ctx, w.bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper.cpp failed: %w\n%s", err, out)
	}

	data, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}

	var parsed whisperOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	var words []timing.WordTimestamp
	for _, seg := range parsed.Segments {
		for _, wd := range seg.Words {
			text := strings.TrimSpace(wd.Word)
			if text == "" {
				continue
			}
			words = append(words, timing.WordTimestamp{Text: text, Start: wd.Start, End: wd.End})
		}
	}

	log.Info().Int("words", len(words)).Msg("transcription complete")
	return words, nil
}
