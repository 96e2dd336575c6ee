package timing

import (
	"testing"

	"clipforge/script"
)

func words(n int, step float64) []WordTimestamp {
	out := make([]WordTimestamp, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, WordTimestamp{
			Text:  "w",
			Start: float64(i) * step,
			End:   float64(i+1) * step,
		})
	}
	return out
}

func TestJoinText(t *testing.T) {
	segments := []script.Segment{
		{ID: 1, AudioText: "  hello world  "},
		{ID: 2, AudioText: "second segment here"},
	}
	got := JoinText(segments)
	want := "hello world second segment here"
	if got != want {
		t.Fatalf("JoinText = %q; want %q", got, want)
	}
}

func TestSynchronizePartition(t *testing.T) {
	segments := []script.Segment{
		{ID: 1, AudioText: "one two three"},
		{ID: 2, AudioText: "four five"},
		{ID: 3, AudioText: "six"},
	}
	total := 0
	for _, seg := range segments {
		total += WordCount(seg)
	}
	if total != 6 {
		t.Fatalf("total word count = %d; want 6", total)
	}

	timings, err := Synchronize(segments, words(6, 0.5))
	if err != nil {
		t.Fatalf("Synchronize error: %v", err)
	}
	if len(timings) != len(segments) {
		t.Fatalf("got %d timings; want %d", len(timings), len(segments))
	}

	// Word ranges must be contiguous and non-overlapping in authored order.
	wantRanges := [][2]int{{0, 2}, {3, 4}, {5, 5}}
	for i, tm := range timings {
		if tm.WordStart != wantRanges[i][0] || tm.WordEnd != wantRanges[i][1] {
			t.Fatalf("segment %d word range = [%d, %d]; want %v", tm.SegmentID, tm.WordStart, tm.WordEnd, wantRanges[i])
		}
		if i > 0 && tm.WordStart != timings[i-1].WordEnd+1 {
			t.Fatalf("segment %d range not contiguous with previous", tm.SegmentID)
		}
		if tm.Duration != tm.End-tm.Start {
			t.Fatalf("segment %d duration = %g; want %g", tm.SegmentID, tm.Duration, tm.End-tm.Start)
		}
		if tm.Duration < 0 {
			t.Fatalf("segment %d negative duration", tm.SegmentID)
		}
	}
}

func TestSynchronizeClampsOnDrift(t *testing.T) {
	segments := []script.Segment{
		{ID: 1, AudioText: "one two three"},
		{ID: 2, AudioText: "four five six seven"},
	}

	// Transcription dropped most of the words: indices must clamp, one
	// timing per segment, no panic.
	timings, err := Synchronize(segments, words(2, 1.0))
	if err != nil {
		t.Fatalf("Synchronize error: %v", err)
	}
	if len(timings) != 2 {
		t.Fatalf("got %d timings; want 2", len(timings))
	}
	for _, tm := range timings {
		if tm.WordStart < 0 || tm.WordStart > 1 || tm.WordEnd < 0 || tm.WordEnd > 1 {
			t.Fatalf("segment %d indices [%d, %d] out of clamped range", tm.SegmentID, tm.WordStart, tm.WordEnd)
		}
	}
	// Second segment starts past the available words, so it collapses onto
	// the last word.
	if timings[1].WordStart != 1 || timings[1].WordEnd != 1 {
		t.Fatalf("drifted segment range = [%d, %d]; want [1, 1]", timings[1].WordStart, timings[1].WordEnd)
	}
}

func TestSynchronizeZeroWordsFatal(t *testing.T) {
	segments := []script.Segment{{ID: 1, AudioText: "hello"}}
	if _, err := Synchronize(segments, nil); err == nil {
		t.Fatal("expected error for zero transcribed words")
	}
}
