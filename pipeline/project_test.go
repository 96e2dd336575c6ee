package pipeline

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipforge/config"
	"clipforge/timing"
)

func TestNewProjectScaffold(t *testing.T) {
	base := t.TempDir()

	srcCfg := filepath.Join(base, "input_config.json")
	if err := os.WriteFile(srcCfg, []byte(`{"video_name":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewProject(base, "My_Video", srcCfg)
	if err != nil {
		t.Fatalf("NewProject error: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(p.Dir), "My_Video_") {
		t.Fatalf("run dir %q not prefixed with video name", p.Dir)
	}

	for _, d := range []string{p.AudioDir, p.BrollDir, p.SubtitlesDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("missing subdir %s: %v", d, err)
		}
	}

	copied, err := os.ReadFile(filepath.Join(p.Dir, "input.json"))
	if err != nil {
		t.Fatalf("input.json not copied: %v", err)
	}
	if string(copied) != `{"video_name":"x"}` {
		t.Fatalf("input.json content = %q", copied)
	}

	if p.Complete() {
		t.Fatal("fresh project should not be complete")
	}
	if err := os.WriteFile(p.FinalPath(), []byte("v"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !p.Complete() {
		t.Fatal("project with final artifact should be complete")
	}
}

func TestNewProjectNeverSharesDir(t *testing.T) {
	base := t.TempDir()

	p1, err := NewProject(base, "vid", "")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := NewProject(base, "vid", "")
	if err != nil {
		t.Fatal(err)
	}

	// Back-to-back runs land in the same second; the second must get its
	// own directory rather than reusing the first run's.
	if p1.Dir == p2.Dir {
		t.Fatalf("both runs scaffolded into %s", p1.Dir)
	}
	for _, p := range []*Project{p1, p2} {
		if _, err := os.Stat(p.BrollDir); err != nil {
			t.Fatalf("missing subdir for %s: %v", p.Dir, err)
		}
	}
}

func TestSweepIncomplete(t *testing.T) {
	base := t.TempDir()

	mkRun := func(name string, complete bool) string {
		dir := filepath.Join(base, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if complete {
			if err := os.WriteFile(filepath.Join(dir, config.FinalVideoName), []byte("v"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
		return dir
	}

	incomplete := mkRun("vid_20260101_120000", false)
	complete := mkRun("vid_20260101_130000", true)
	other := mkRun("othervid_20260101_140000", false)

	if err := SweepIncomplete(base, "vid"); err != nil {
		t.Fatalf("SweepIncomplete error: %v", err)
	}

	if _, err := os.Stat(incomplete); !os.IsNotExist(err) {
		t.Fatal("incomplete run should be removed")
	}
	if _, err := os.Stat(complete); err != nil {
		t.Fatal("complete run must never be touched")
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatal("runs for other videos must never be touched")
	}
}

func TestSweepIncompleteMissingBase(t *testing.T) {
	if err := SweepIncomplete(filepath.Join(t.TempDir(), "nope"), "vid"); err != nil {
		t.Fatalf("missing base dir should be a no-op, got %v", err)
	}
}

func TestWriteTimestamps(t *testing.T) {
	base := t.TempDir()
	p, err := NewProject(base, "vid", "")
	if err != nil {
		t.Fatal(err)
	}

	words := []timing.WordTimestamp{{Text: "one", Start: 0, End: 0.5}}
	segs := []timing.SegmentTiming{{SegmentID: 1, Start: 0, End: 0.5, Duration: 0.5, WordStart: 0, WordEnd: 0}}

	if err := p.WriteTimestamps("/audio/full_audio.wav", 0.5, words, segs); err != nil {
		t.Fatalf("WriteTimestamps error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(p.Dir, config.TimestampsFile))
	if err != nil {
		t.Fatal(err)
	}

	var artifact struct {
		FullAudioPath string                 `json:"full_audio_path"`
		TotalDuration float64                `json:"total_duration"`
		Words         []timing.WordTimestamp `json:"words"`
		Segments      []timing.SegmentTiming `json:"segments"`
	}
	if err := json.Unmarshal(data, &artifact); err != nil {
		t.Fatalf("timestamps artifact not valid JSON: %v", err)
	}
	if artifact.FullAudioPath != "/audio/full_audio.wav" || len(artifact.Words) != 1 || len(artifact.Segments) != 1 {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
}

func TestStageError(t *testing.T) {
	base := errors.New("boom")
	err := stageErr("assemble", base)

	var se *StageError
	if !errors.As(err, &se) {
		t.Fatal("expected StageError")
	}
	if se.Stage != "assemble" {
		t.Fatalf("stage = %q", se.Stage)
	}
	if !errors.Is(err, base) {
		t.Fatal("StageError should unwrap to the cause")
	}
	if !strings.Contains(err.Error(), "assemble") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("error message %q should name stage and cause", err.Error())
	}
}
