package plan

import (
	"math"
	"math/rand"
	"testing"

	"clipforge/script"
	"clipforge/timing"
)

func testPacing() Pacing {
	return Pacing{CutFrequencySeconds: 2.5, SpeedMin: 0.9, SpeedMax: 1.1}
}

func TestBuildClipCounts(t *testing.T) {
	cases := []struct {
		name        string
		duration    float64
		wantClips   int
		wantPerClip float64
	}{
		{"subdivided", 7.0, 3, 7.0 / 3},
		{"short segment", 1.0, 1, 1.0},
		{"exact multiple", 5.0, 2, 2.5},
		{"zero duration", 0.0, 1, 0.0},
	}

	specs := []script.ClipSpec{{Kind: script.KindVideo, SearchQuery: "city skyline"}}
	rng := rand.New(rand.NewSource(1))

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tm := timing.SegmentTiming{SegmentID: 1, Start: 0, End: c.duration, Duration: c.duration}
			plans, err := Build(tm, specs, testPacing(), rng)
			if err != nil {
				t.Fatalf("Build error: %v", err)
			}
			if len(plans) != c.wantClips {
				t.Fatalf("got %d plans; want %d", len(plans), c.wantClips)
			}
			for i, p := range plans {
				if p.ClipIndex != i {
					t.Fatalf("plan %d has clip index %d", i, p.ClipIndex)
				}
				if math.Abs(p.DisplayDuration-c.wantPerClip) > 1e-9 {
					t.Fatalf("plan %d duration = %g; want %g", i, p.DisplayDuration, c.wantPerClip)
				}
				if p.SpeedFactor < 0.9 || p.SpeedFactor > 1.1 {
					t.Fatalf("plan %d speed %g outside [0.9, 1.1]", i, p.SpeedFactor)
				}
			}
		})
	}
}

func TestExpandSpecsDistinctQueries(t *testing.T) {
	specs := []script.ClipSpec{{Kind: script.KindVideo, SearchQuery: "ocean waves"}}
	out := ExpandSpecs(specs, 4)
	if len(out) != 4 {
		t.Fatalf("got %d specs; want 4", len(out))
	}
	if out[0].SearchQuery != "ocean waves" {
		t.Fatalf("authored spec changed: %q", out[0].SearchQuery)
	}

	seen := map[string]bool{}
	for _, s := range out {
		if seen[s.SearchQuery] {
			t.Fatalf("duplicate expanded query %q", s.SearchQuery)
		}
		seen[s.SearchQuery] = true
	}

	// Expansion is deterministic for the same inputs.
	again := ExpandSpecs(specs, 4)
	for i := range out {
		if out[i].SearchQuery != again[i].SearchQuery {
			t.Fatalf("expansion not deterministic at %d: %q vs %q", i, out[i].SearchQuery, again[i].SearchQuery)
		}
	}
}

func TestExpandSpecsNoExpansionNeeded(t *testing.T) {
	specs := []script.ClipSpec{
		{SearchQuery: "a"},
		{SearchQuery: "b"},
		{SearchQuery: "c"},
	}
	out := ExpandSpecs(specs, 2)
	if len(out) != 2 || out[0].SearchQuery != "a" || out[1].SearchQuery != "b" {
		t.Fatalf("truncation wrong: %+v", out)
	}
}

func TestPacingValidate(t *testing.T) {
	cases := []struct {
		name    string
		pacing  Pacing
		wantErr bool
	}{
		{"valid", Pacing{CutFrequencySeconds: 3, SpeedMin: 0.9, SpeedMax: 1.1}, false},
		{"zero frequency", Pacing{CutFrequencySeconds: 0, SpeedMin: 0.9, SpeedMax: 1.1}, true},
		{"negative frequency", Pacing{CutFrequencySeconds: -1, SpeedMin: 0.9, SpeedMax: 1.1}, true},
		{"zero speed min", Pacing{CutFrequencySeconds: 3, SpeedMin: 0, SpeedMax: 1.1}, true},
		{"inverted range", Pacing{CutFrequencySeconds: 3, SpeedMin: 1.2, SpeedMax: 1.1}, true},
		{"equal bounds", Pacing{CutFrequencySeconds: 3, SpeedMin: 1.0, SpeedMax: 1.0}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.pacing.Validate()
			if (err != nil) != c.wantErr {
				t.Fatalf("Validate() error = %v; wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestBuildRejectsEmptySpecs(t *testing.T) {
	tm := timing.SegmentTiming{SegmentID: 1, Duration: 5}
	if _, err := Build(tm, nil, testPacing(), rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected error for empty clip specs")
	}
}
