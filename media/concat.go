package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipforge/config"
)

// Concat merges the given clips into one video, in order, re-encoding for
// consistent parameters across sources. The output carries no audio track:
// footage clips are silent by construction and the voice track is muxed in
// later.
func Concat(clipPaths []string, outPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("no clips to concatenate")
	}

	listPath, err := writeConcatList(clipPaths, outPath)
	if err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	defer os.Remove(listPath)

	err = ffmpeg.Input(listPath, ffmpeg.KwArgs{"f": "concat", "safe": "0"}).
		Output(outPath, ffmpeg.KwArgs{
			"c:v":    config.VideoCodec,
			"crf":    config.VideoCRF,
			"preset": config.VideoPreset,
			"r":      config.VideoFrameRate,
			"an":     "",
		}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("concat %d clips: %w", len(clipPaths), err)
	}
	return nil
}

// writeConcatList generates the file list consumed by the concat demuxer,
// next to the output so cleanup catches it on failure.
func writeConcatList(clipPaths []string, outPath string) (string, error) {
	listPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_concat.txt"
	var b strings.Builder
	for _, p := range clipPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "file '%s'\n", filepath.ToSlash(abs))
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return listPath, nil
}
