package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"clipforge/config"
	"clipforge/timing"
)

// Project is the on-disk state of one generation attempt. The directory is
// exclusively owned by its run; a run is complete iff the final artifact
// exists inside it.
type Project struct {
	Dir          string
	AudioDir     string
	BrollDir     string
	SubtitlesDir string
}

// NewProject scaffolds a timestamped run directory under baseDir and copies
// the input config into it. The directory is created exclusively: when two
// runs for the same video land in the same second, the later one gets a
// numeric suffix rather than sharing the earlier one's directory.
func NewProject(baseDir, videoName, configPath string) (*Project, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base dir %s: %w", baseDir, err)
	}

	stem := filepath.Join(baseDir, fmt.Sprintf("%s_%s", videoName, time.Now().Format("20060102_150405")))
	dir := stem
	for attempt := 1; ; attempt++ {
		err := os.Mkdir(dir, 0o755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("create project dir %s: %w", dir, err)
		}
		dir = fmt.Sprintf("%s_%d", stem, attempt)
	}

	p := &Project{
		Dir:          dir,
		AudioDir:     filepath.Join(dir, "audio"),
		BrollDir:     filepath.Join(dir, "broll"),
		SubtitlesDir: filepath.Join(dir, "subtitles"),
	}

	for _, d := range []string{p.AudioDir, p.BrollDir, p.SubtitlesDir} {
		if err := os.Mkdir(d, 0o755); err != nil {
			return nil, fmt.Errorf("create project dir %s: %w", d, err)
		}
	}

	if configPath != "" {
		if err := copyFile(configPath, filepath.Join(dir, "input.json")); err != nil {
			return nil, fmt.Errorf("copy input config: %w", err)
		}
	}

	log.Info().Str("dir", dir).Msg("project scaffolded")
	return p, nil
}

// FinalPath is where the run's final artifact lives.
func (p *Project) FinalPath() string {
	return filepath.Join(p.Dir, config.FinalVideoName)
}

// Complete reports whether the final artifact exists.
func (p *Project) Complete() bool {
	_, err := os.Stat(p.FinalPath())
	return err == nil
}

// OpenRunLog opens the per-run text log for appending.
func (p *Project) OpenRunLog() (*os.File, error) {
	return os.OpenFile(filepath.Join(p.Dir, config.LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// SweepIncomplete removes earlier run directories for the same video name
// that never produced a final artifact. Directories holding a final artifact
// are never touched.
func SweepIncomplete(baseDir, videoName string) error {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", baseDir, err)
	}

	prefix := videoName + "_"
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		dir := filepath.Join(baseDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, config.FinalVideoName)); err == nil {
			continue
		}
		log.Info().Str("dir", dir).Msg("removing incomplete run")
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove incomplete run %s: %w", dir, err)
		}
	}
	return nil
}

// timestampsArtifact is the persisted word list plus per-segment timings.
type timestampsArtifact struct {
	FullAudioPath string                 `json:"full_audio_path"`
	TotalDuration float64                `json:"total_duration"`
	Words         []timing.WordTimestamp `json:"words"`
	Segments      []timing.SegmentTiming `json:"segments"`
}

// WriteTimestamps persists the synchronization result next to the audio.
func (p *Project) WriteTimestamps(audioPath string, totalDuration float64, words []timing.WordTimestamp, segments []timing.SegmentTiming) error {
	artifact := timestampsArtifact{
		FullAudioPath: audioPath,
		TotalDuration: totalDuration,
		Words:         words,
		Segments:      segments,
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("encode timestamps: %w", err)
	}
	path := filepath.Join(p.Dir, config.TimestampsFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
