package timing

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"clipforge/script"
)

// WordTimestamp is one transcribed word with its start/end time in the full
// voice track. Produced in time order by the transcription collaborator;
// ordering is the only invariant relied on here.
type WordTimestamp struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// SegmentTiming maps one authored segment onto the voice track.
type SegmentTiming struct {
	SegmentID int     `json:"segment_id"`
	Start     float64 `json:"start_time"`
	End       float64 `json:"end_time"`
	Duration  float64 `json:"duration"`
	WordStart int     `json:"word_start_idx"`
	WordEnd   int     `json:"word_end_idx"`
}

// JoinText concatenates all segment texts with a single space separator, in
// authored order. This is the exact text handed to the TTS collaborator so
// word counting below stays consistent with it.
func JoinText(segments []script.Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, strings.TrimSpace(seg.AudioText))
	}
	return strings.Join(parts, " ")
}

// WordCount returns the whitespace-split word count of a segment's text.
func WordCount(seg script.Segment) int {
	return len(strings.Fields(seg.AudioText))
}

// Synchronize maps the flat word-timestamp stream back onto the authored
// segments using cumulative word counts. Transcription word count can drift
// from the authored count (merged tokens, filtered silence), so both indices
// are clamped into range before lookup: an approximately synced video beats
// no video. Zero transcribed words is the one fatal case, since no timing
// can be derived at all.
func Synchronize(segments []script.Segment, words []WordTimestamp) ([]SegmentTiming, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("no words transcribed, cannot derive segment timings")
	}

	authored := 0
	for _, seg := range segments {
		authored += WordCount(seg)
	}
	if authored != len(words) {
		log.Warn().
			Int("authored_words", authored).
			Int("transcribed_words", len(words)).
			Msg("word count drift between script and transcription, sync will be approximate")
	}

	timings := make([]SegmentTiming, 0, len(segments))
	cumulative := 0
	for _, seg := range segments {
		n := WordCount(seg)
		startIdx := clamp(cumulative, 0, len(words)-1)
		endIdx := clamp(cumulative+n-1, 0, len(words)-1)
		cumulative += n

		start := words[startIdx].Start
		end := words[endIdx].End
		timings = append(timings, SegmentTiming{
			SegmentID: seg.ID,
			Start:     start,
			End:       end,
			Duration:  end - start,
			WordStart: startIdx,
			WordEnd:   endIdx,
		})
	}
	return timings, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
