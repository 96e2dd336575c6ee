// Package pipeline sequences the generation stages and applies the failure
// policy across them.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"clipforge/assemble"
	"clipforge/logging"
	"clipforge/media"
	"clipforge/plan"
	"clipforge/publish"
	"clipforge/script"
	"clipforge/subtitle"
	"clipforge/timing"
	"clipforge/transcript"
	"clipforge/voice"
)

// Options configure one pipeline run.
type Options struct {
	// BaseDir is the parent of all run directories.
	BaseDir string
	// MusicDir is the root of the genre-keyed music library.
	MusicDir string
	// ConfigPath, when set, is copied into the run directory as input.json.
	ConfigPath string
	// CleanPrevious sweeps incomplete earlier runs for the same video name.
	CleanPrevious bool
	// Pacing controls the cut planner.
	Pacing plan.Pacing
	// Concurrency bounds parallel footage fetches. Values < 1 mean serial.
	Concurrency int
	// Seed, when nonzero, makes speed and music selection reproducible.
	Seed int64
}

// ClipFetcher retrieves processed footage for one planned clip, returning the
// path of the finished file under outDir.
type ClipFetcher interface {
	FetchClip(ctx context.Context, cp plan.ClipPlan, outDir string) (string, error)
}

// Runner drives a full generation attempt: scaffold, voice, transcription
// and sync, footage planning and fetch, assembly, captions, validation, and
// optional publishing. Fatal stages return a StageError; per-unit failures
// degrade the output and keep going.
type Runner struct {
	synth     voice.Synthesizer
	scribe    transcript.Transcriber
	fetcher   ClipFetcher
	publisher publish.Publisher
	opts      Options
	rng       *rand.Rand
}

func NewRunner(synth voice.Synthesizer, scribe transcript.Transcriber, fetcher ClipFetcher, publisher publish.Publisher, opts Options) *Runner {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runner{
		synth:     synth,
		scribe:    scribe,
		fetcher:   fetcher,
		publisher: publisher,
		opts:      opts,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Run executes the pipeline for one validated script and returns the path of
// the final artifact.
func (r *Runner) Run(ctx context.Context, sc *script.Script) (string, error) {
	if err := r.opts.Pacing.Validate(); err != nil {
		return "", stageErr("scaffold", err)
	}

	if r.opts.CleanPrevious {
		if err := SweepIncomplete(r.opts.BaseDir, sc.SafeName()); err != nil {
			return "", stageErr("scaffold", err)
		}
	}

	project, err := NewProject(r.opts.BaseDir, sc.SafeName(), r.opts.ConfigPath)
	if err != nil {
		return "", stageErr("scaffold", err)
	}

	// Requests arriving over the wire have no config file to copy, so the
	// run directory gets the script itself as input.json.
	if r.opts.ConfigPath == "" {
		if data, err := json.MarshalIndent(sc, "", "  "); err == nil {
			if err := os.WriteFile(filepath.Join(project.Dir, "input.json"), data, 0o644); err != nil {
				log.Warn().Err(err).Msg("could not persist input config")
			}
		}
	}

	// Each run logs through its own logger so overlapping in-process runs
	// never share a log file.
	logger := log.Logger
	if runLog, err := project.OpenRunLog(); err != nil {
		logger.Warn().Err(err).Msg("could not open run log, console only")
	} else {
		defer runLog.Close()
		logger = logging.RunLogger(runLog)
	}

	logger.Info().Str("video", sc.VideoName).Str("platform", sc.TargetPlatform).Msg("starting generation")

	// Voice synthesis is the timing ground truth for everything after it.
	audioPath := filepath.Join(project.AudioDir, "full_audio.wav")
	voiceDuration, err := r.synth.Synthesize(ctx, timing.JoinText(sc.Segments), sc.VoiceName, audioPath)
	if err != nil {
		return "", stageErr("voice", err)
	}

	words, err := r.scribe.Transcribe(ctx, audioPath, project.AudioDir)
	if err != nil {
		return "", stageErr("transcribe", err)
	}

	timings, err := timing.Synchronize(sc.Segments, words)
	if err != nil {
		return "", stageErr("synchronize", err)
	}

	if err := project.WriteTimestamps(audioPath, voiceDuration, words, timings); err != nil {
		logger.Warn().Err(err).Msg("could not persist timestamps artifact")
	}

	clipPaths := r.fetchFootage(ctx, logger, sc, timings, project)

	assembler := assemble.New(assemble.Options{
		ProjectDir:     project.Dir,
		MusicDir:       r.opts.MusicDir,
		Genre:          sc.BackgroundMusicGenre,
		TargetDuration: sc.TargetDurationSeconds,
		Rand:           r.rng,
	})
	finalPath, err := assembler.Assemble(clipPaths, audioPath, voiceDuration)
	if err != nil {
		return "", stageErr("assemble", err)
	}

	r.caption(logger, words, finalPath, project)

	if _, err := os.Stat(finalPath); err != nil {
		return "", stageErr("validate", fmt.Errorf("final artifact missing: %w", err))
	}

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, finalPath, sc); err != nil {
			logger.Warn().Err(err).Msg("publish failed, artifact kept locally")
		}
	}

	logger.Info().Str("path", finalPath).Msg("generation complete")
	return finalPath, nil
}

// fetchFootage plans and fetches clips for every segment. Per-clip and
// per-segment failures are degradations: a partially illustrated video beats
// no video. Returned paths are in flat (segment order, clip order) regardless
// of fetch completion order.
func (r *Runner) fetchFootage(ctx context.Context, logger zerolog.Logger, sc *script.Script, timings []timing.SegmentTiming, project *Project) []string {
	type slot struct {
		segIdx  int
		clipIdx int
		path    string
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		slots []slot
	)

	concurrency := r.opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	for segIdx, t := range timings {
		seg := sc.Segments[segIdx]
		plans, err := plan.Build(t, seg.Clips, r.opts.Pacing, r.rng)
		if err != nil {
			logger.Warn().Err(err).Int("segment", seg.ID).Msg("skipping segment, cannot plan clips")
			continue
		}

		for _, cp := range plans {
			wg.Add(1)
			go func(segIdx int, cp plan.ClipPlan) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				path, err := r.fetcher.FetchClip(ctx, cp, project.BrollDir)
				if err != nil {
					logger.Warn().Err(err).
						Int("segment", cp.SegmentID).
						Int("clip", cp.ClipIndex).
						Msg("clip fetch failed, continuing without it")
					return
				}
				mu.Lock()
				slots = append(slots, slot{segIdx: segIdx, clipIdx: cp.ClipIndex, path: path})
				mu.Unlock()
			}(segIdx, cp)
		}
	}
	wg.Wait()

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].segIdx != slots[j].segIdx {
			return slots[i].segIdx < slots[j].segIdx
		}
		return slots[i].clipIdx < slots[j].clipIdx
	})

	paths := make([]string, 0, len(slots))
	for _, s := range slots {
		paths = append(paths, s.path)
	}
	logger.Info().Int("clips", len(paths)).Msg("footage fetch complete")
	return paths
}

// caption burns word-highlight subtitles into the final artifact. Any
// failure here leaves the uncaptioned video in place.
func (r *Runner) caption(logger zerolog.Logger, words []timing.WordTimestamp, finalPath string, project *Project) {
	assPath := filepath.Join(project.SubtitlesDir, "captions.ass")
	if err := subtitle.GenerateASS(words, assPath); err != nil {
		logger.Warn().Err(err).Msg("caption generation failed, keeping uncaptioned video")
		return
	}
	srtPath := filepath.Join(project.SubtitlesDir, "captions.srt")
	if err := subtitle.GenerateSRT(words, srtPath); err != nil {
		logger.Warn().Err(err).Msg("srt generation failed")
	}

	captioned := filepath.Join(project.Dir, "captioned_output.mp4")
	if err := media.BurnSubtitles(finalPath, assPath, captioned); err != nil {
		logger.Warn().Err(err).Msg("subtitle burn failed, keeping uncaptioned video")
		return
	}
	if err := os.Rename(captioned, finalPath); err != nil {
		logger.Warn().Err(err).Msg("could not replace final artifact with captioned version")
		os.Remove(captioned)
		return
	}
	logger.Info().Msg("captions burned into final artifact")
}
