package plan

import (
	"fmt"
	"math"
	"math/rand"

	"clipforge/script"
	"clipforge/timing"
)

// Pacing controls how a segment's duration is cut into footage clips.
type Pacing struct {
	// CutFrequencySeconds is the target average time between cuts. Must be > 0.
	CutFrequencySeconds float64
	// SpeedMin/SpeedMax bound the uniform random playback-speed factor
	// assigned per clip. Requires 0 < SpeedMin <= SpeedMax.
	SpeedMin float64
	SpeedMax float64
}

// Validate rejects pacing parameters the planner cannot honor.
func (p Pacing) Validate() error {
	if p.CutFrequencySeconds <= 0 {
		return fmt.Errorf("cut frequency must be > 0, got %g", p.CutFrequencySeconds)
	}
	if p.SpeedMin <= 0 || p.SpeedMin > p.SpeedMax {
		return fmt.Errorf("speed range [%g, %g] invalid: need 0 < min <= max", p.SpeedMin, p.SpeedMax)
	}
	return nil
}

// ClipPlan is one footage clip to render for a segment.
type ClipPlan struct {
	SegmentID       int
	ClipIndex       int
	Source          script.ClipSpec
	DisplayDuration float64
	SpeedFactor     float64
}

// querySuffixes are the descriptive qualifiers rotated onto expanded search
// queries, so a single authored clip can still yield visually distinct results.
var querySuffixes = []string{
	"cinematic",
	"close up",
	"slow motion",
	"aerial view",
	"timelapse",
	"moody lighting",
}

// Build computes the clip plans for one segment: how many clips, each clip's
// display duration (equal subdivision of the segment), which spec it renders,
// and a random playback speed for visual variety. Speed is the only
// randomized output; clip count, durations and query expansion are
// deterministic for a given segment and pacing.
func Build(t timing.SegmentTiming, specs []script.ClipSpec, p Pacing, rng *rand.Rand) ([]ClipPlan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("segment %d has no clip specs", t.SegmentID)
	}

	numClips := int(math.Ceil(t.Duration / p.CutFrequencySeconds))
	if numClips < 1 {
		numClips = 1
	}
	perClip := t.Duration / float64(numClips)

	sources := ExpandSpecs(specs, numClips)
	plans := make([]ClipPlan, 0, numClips)
	for i := 0; i < numClips; i++ {
		plans = append(plans, ClipPlan{
			SegmentID:       t.SegmentID,
			ClipIndex:       i,
			Source:          sources[i],
			DisplayDuration: perClip,
			SpeedFactor:     p.SpeedMin + rng.Float64()*(p.SpeedMax-p.SpeedMin),
		})
	}
	return plans, nil
}

// ExpandSpecs returns exactly n clip specs. The authored specs come first,
// unchanged; when more are needed, it cycles through the authored list and
// appends a rotating descriptive suffix to the search query. The rotation is
// index-based, so the same authored list and count always expand identically.
func ExpandSpecs(specs []script.ClipSpec, n int) []script.ClipSpec {
	if n <= len(specs) {
		return specs[:n]
	}
	out := make([]script.ClipSpec, 0, n)
	out = append(out, specs...)
	for i := len(specs); i < n; i++ {
		derived := specs[i%len(specs)]
		suffix := querySuffixes[(i-len(specs))%len(querySuffixes)]
		derived.SearchQuery = derived.SearchQuery + ", " + suffix
		out = append(out, derived)
	}
	return out
}
