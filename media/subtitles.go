package media

import (
	"fmt"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipforge/config"
)

// BurnSubtitles renders an ASS subtitle file into the video stream. The
// audio track is copied through untouched.
func BurnSubtitles(videoPath, assPath, outPath string) error {
	err := ffmpeg.Input(videoPath).
		Output(outPath, ffmpeg.KwArgs{
			"vf":     fmt.Sprintf("ass='%s'", escapeFilterPath(assPath)),
			"c:v":    config.VideoCodec,
			"preset": config.VideoPreset,
			"crf":    config.VideoCRF,
			"c:a":    "copy",
		}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("burn subtitles %s into %s: %w", assPath, videoPath, err)
	}
	return nil
}

// escapeFilterPath makes a path safe for use inside an ffmpeg filter
// argument, which treats ':' and '\' as metacharacters.
func escapeFilterPath(path string) string {
	p := filepath.ToSlash(path)
	return strings.ReplaceAll(p, ":", "\\:")
}
