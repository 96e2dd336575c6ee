// Package subtitle renders word-timed transcripts into subtitle files.
package subtitle

import (
	"fmt"
	"os"
	"strings"

	"clipforge/config"
	"clipforge/timing"
)

// Line is a short run of consecutive words shown together on screen.
type Line struct {
	Words []timing.WordTimestamp
	Start float64
	End   float64
}

// GroupIntoLines batches words into display lines. A line closes at sentence
// punctuation, at maxWords, or at the final word. Periods inside numbers like
// "4.5" do not close a line.
func GroupIntoLines(words []timing.WordTimestamp, maxWords int) []Line {
	lines := []Line{}
	current := Line{}

	for i, w := range words {
		if len(current.Words) == 0 {
			current.Start = w.Start
		}
		current.Words = append(current.Words, w)
		current.End = w.End

		if endsSentence(w.Text) || len(current.Words) >= maxWords || i == len(words)-1 {
			lines = append(lines, current)
			current = Line{}
		}
	}
	return lines
}

func endsSentence(word string) bool {
	trimmed := strings.TrimSpace(word)
	if strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "?") {
		return true
	}
	if !strings.HasSuffix(trimmed, ".") {
		return false
	}
	if len(trimmed) < 2 {
		return true
	}
	// A trailing period right after a digit reads as part of a number
	// ("4.", "3.14."), not sentence end. A non-digit before the digit
	// means a version-like token ("v2.") that still closes the line.
	prev := trimmed[len(trimmed)-2]
	if prev < '0' || prev > '9' {
		return true
	}
	if len(trimmed) == 2 {
		return false
	}
	third := trimmed[len(trimmed)-3]
	return third < '0' || third > '9'
}

// GenerateASS writes an ASS subtitle file with word-by-word highlighting:
// one Dialogue event per word, showing its line with the active word in
// yellow.
func GenerateASS(words []timing.WordTimestamp, outPath string) error {
	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer file.Close()

	fmt.Fprintln(file, "[Script Info]")
	fmt.Fprintln(file, "Title: Clipforge Video")
	fmt.Fprintln(file, "ScriptType: v4.00+")
	fmt.Fprintln(file, "PlayResX: 1080")
	fmt.Fprintln(file, "PlayResY: 1920")
	fmt.Fprintln(file, "")
	fmt.Fprintln(file, "[V4+ Styles]")
	fmt.Fprintln(file, "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding")

	// MarginV=768 positions subtitles at 40% from the bottom of a 1920px frame.
	fmt.Fprintf(file, "Style: Default,Consolas,%d,&H00FFFFFF,&H00FFFFFF,&H00000000,&H00000000,-1,0,0,0,100,100,0,0,1,3,0,2,40,40,768,1\n", config.SubtitleFontSize)
	fmt.Fprintf(file, "Style: Highlight,Consolas,%d,&H0000FFFF,&H0000FFFF,&H00000000,&H00000000,-1,0,0,0,100,100,0,0,1,3,0,2,40,40,768,1\n", config.SubtitleFontSize)

	fmt.Fprintln(file, "")
	fmt.Fprintln(file, "[Events]")
	fmt.Fprintln(file, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text")

	lines := GroupIntoLines(words, config.SubtitleMaxWordsLine)

	for _, line := range lines {
		for wordIdx, word := range line.Words {
			parts := make([]string, 0, len(line.Words))
			for i, w := range line.Words {
				if i == wordIdx {
					parts = append(parts, fmt.Sprintf("{\\c&H0000FFFF&}%s{\\c&H00FFFFFF&}", w.Text))
				} else {
					parts = append(parts, w.Text)
				}
			}

			start := word.Start
			end := word.End
			if wordIdx < len(line.Words)-1 {
				end = line.Words[wordIdx+1].Start
			}

			fmt.Fprintf(file, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
				formatASSTimestamp(start),
				formatASSTimestamp(end),
				strings.Join(parts, " "))
		}
	}
	return nil
}

// GenerateSRT writes a plain SRT file with one entry per display line.
func GenerateSRT(words []timing.WordTimestamp, outPath string) error {
	file, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer file.Close()

	lines := GroupIntoLines(words, config.SubtitleMaxWordsLine)
	for i, line := range lines {
		texts := make([]string, 0, len(line.Words))
		for _, w := range line.Words {
			texts = append(texts, w.Text)
		}
		fmt.Fprintf(file, "%d\n", i+1)
		fmt.Fprintf(file, "%s --> %s\n", formatSRTTimestamp(line.Start), formatSRTTimestamp(line.End))
		fmt.Fprintf(file, "%s\n\n", strings.Join(texts, " "))
	}
	return nil
}

// formatASSTimestamp converts seconds to the ASS h:mm:ss.cc format.
func formatASSTimestamp(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := int(seconds) % 60
	centisecs := int((seconds - float64(int(seconds))) * 100)

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centisecs)
}

func formatSRTTimestamp(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := int(seconds) % 60
	millis := int((seconds - float64(int(seconds))) * 1000)

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
