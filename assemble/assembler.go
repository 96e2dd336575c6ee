// Package assemble reconciles independently produced audio and video tracks
// into the final artifact.
package assemble

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"clipforge/config"
	"clipforge/media"
)

// Action is the reconciliation decision for a footage track measured against
// the voice track.
type Action int

const (
	// ActionUse keeps the footage unchanged; drift is within tolerance.
	ActionUse Action = iota
	// ActionLoop replays the footage until it covers the voice, then cuts.
	ActionLoop
	// ActionTrim cuts the footage down to the voice duration.
	ActionTrim
)

func (a Action) String() string {
	switch a {
	case ActionLoop:
		return "loop"
	case ActionTrim:
		return "trim"
	default:
		return "use"
	}
}

// Reconciliation describes how to normalize footage to the voice duration.
// PlayCount is meaningful only for ActionLoop.
type Reconciliation struct {
	Action    Action
	PlayCount int
}

// Reconcile compares the concatenated footage duration with the voice
// duration. The voice track is ground truth: footage shorter than the voice
// is looped to cover it, longer footage is trimmed, and small encoder drift
// is left alone.
func Reconcile(footageDuration, voiceDuration float64) Reconciliation {
	if math.Abs(footageDuration-voiceDuration) <= config.DriftToleranceSeconds {
		return Reconciliation{Action: ActionUse}
	}
	if footageDuration < voiceDuration {
		return Reconciliation{
			Action:    ActionLoop,
			PlayCount: int(math.Ceil(voiceDuration / footageDuration)),
		}
	}
	return Reconciliation{Action: ActionTrim}
}

// MusicLoops reports how many times a music track must play to cover the
// voice duration.
func MusicLoops(musicDuration, voiceDuration float64) int {
	if musicDuration <= 0 || musicDuration >= voiceDuration {
		return 1
	}
	return int(math.Ceil(voiceDuration / musicDuration))
}

// Options configure one assembly run.
type Options struct {
	ProjectDir     string
	MusicDir       string
	Genre          string
	TargetDuration float64
	Rand           *rand.Rand
}

// Assembler drives footage concatenation, duration reconciliation, music
// mixing, and the final mux for one project directory.
type Assembler struct {
	opts Options
}

func New(opts Options) *Assembler {
	return &Assembler{opts: opts}
}

// Assemble produces the final artifact from rendered footage clips and the
// full voice track. Intermediate temp_* files are removed only after the
// final artifact exists; on failure they stay behind for diagnosis.
func (a *Assembler) Assemble(clipPaths []string, voicePath string, voiceDuration float64) (string, error) {
	if len(clipPaths) == 0 {
		return "", fmt.Errorf("no footage clips to assemble")
	}

	dir := a.opts.ProjectDir

	footagePath := filepath.Join(dir, "temp_footage.mp4")
	if err := media.Concat(clipPaths, footagePath); err != nil {
		return "", fmt.Errorf("concatenate footage: %w", err)
	}

	footageDuration, err := media.ProbeDuration(footagePath)
	if err != nil {
		return "", fmt.Errorf("probe footage: %w", err)
	}

	rec := Reconcile(footageDuration, voiceDuration)
	log.Info().
		Float64("footage_s", footageDuration).
		Float64("voice_s", voiceDuration).
		Str("action", rec.Action.String()).
		Msg("reconciling footage against voice")

	videoPath := footagePath
	switch rec.Action {
	case ActionLoop:
		videoPath = filepath.Join(dir, "temp_footage_looped.mp4")
		if err := media.LoopVideo(footagePath, videoPath, rec.PlayCount, voiceDuration); err != nil {
			return "", fmt.Errorf("loop footage: %w", err)
		}
	case ActionTrim:
		videoPath = filepath.Join(dir, "temp_footage_trimmed.mp4")
		if err := media.TrimVideo(footagePath, videoPath, voiceDuration); err != nil {
			return "", fmt.Errorf("trim footage: %w", err)
		}
	}

	audioPath := voicePath
	if musicPath := a.pickMusicTrack(); musicPath != "" {
		musicDuration, err := media.ProbeDuration(musicPath)
		if err != nil {
			log.Warn().Err(err).Str("track", musicPath).Msg("could not probe music track, using voice only")
		} else {
			mixedPath := filepath.Join(dir, "temp_audio_mixed.mp3")
			loops := MusicLoops(musicDuration, voiceDuration)
			if err := media.MixMusic(voicePath, musicPath, mixedPath, voiceDuration, loops); err != nil {
				log.Warn().Err(err).Msg("music mix failed, using voice only")
			} else {
				audioPath = mixedPath
			}
		}
	} else {
		log.Warn().Str("genre", a.opts.Genre).Msg("no background music found, using voice only")
	}

	finalPath := filepath.Join(dir, config.FinalVideoName)
	if err := media.Mux(videoPath, audioPath, finalPath); err != nil {
		return "", fmt.Errorf("final mux: %w", err)
	}

	finalDuration, err := media.ProbeDuration(finalPath)
	if err != nil {
		return "", fmt.Errorf("probe final artifact: %w", err)
	}

	if diff := math.Abs(finalDuration - a.opts.TargetDuration); diff > config.DurationToleranceSeconds {
		log.Warn().
			Float64("final_s", finalDuration).
			Float64("target_s", a.opts.TargetDuration).
			Float64("diff_s", diff).
			Msg("final duration outside tolerance, manual review recommended")
	} else {
		log.Info().Float64("final_s", finalDuration).Msg("final duration within tolerance")
	}

	a.cleanupTemp()
	return finalPath, nil
}

// pickMusicTrack returns a random track from the genre's library, or ""
// when the library has nothing to offer.
func (a *Assembler) pickMusicTrack() string {
	if a.opts.MusicDir == "" || a.opts.Genre == "" {
		return ""
	}
	genreDir := filepath.Join(a.opts.MusicDir, a.opts.Genre)

	var tracks []string
	for _, pattern := range []string{"*.mp3", "*.wav"} {
		matches, err := filepath.Glob(filepath.Join(genreDir, pattern))
		if err != nil {
			continue
		}
		tracks = append(tracks, matches...)
	}
	if len(tracks) == 0 {
		return ""
	}

	selected := tracks[a.opts.Rand.Intn(len(tracks))]
	log.Info().Str("track", filepath.Base(selected)).Msg("selected background music")
	return selected
}

func (a *Assembler) cleanupTemp() {
	for _, pattern := range []string{"temp_*.mp4", "temp_*.mp3", "temp_*.wav", "temp_*.jpg", "temp_*.txt"} {
		matches, err := filepath.Glob(filepath.Join(a.opts.ProjectDir, pattern))
		if err != nil {
			continue
		}
		for _, path := range matches {
			if err := os.Remove(path); err != nil {
				log.Debug().Err(err).Str("path", path).Msg("temp cleanup skipped file")
			}
		}
	}
}
