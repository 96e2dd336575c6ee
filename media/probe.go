package media

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// probeResult matches the ffprobe JSON fields we read.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// ProbeDuration returns a media file's duration in seconds.
func ProbeDuration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}
	var res probeResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		return 0, fmt.Errorf("parse probe output for %s: %w", path, err)
	}
	if d, err := strconv.ParseFloat(res.Format.Duration, 64); err == nil {
		return d, nil
	}
	// Some containers only carry duration on the stream.
	for _, s := range res.Streams {
		if d, err := strconv.ParseFloat(s.Duration, 64); err == nil {
			return d, nil
		}
	}
	return 0, fmt.Errorf("no duration in probe output for %s", path)
}

// ProbeResolution returns the width and height of the first video stream.
func ProbeResolution(path string) (int, int, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, 0, fmt.Errorf("probe %s: %w", path, err)
	}
	var res probeResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		return 0, 0, fmt.Errorf("parse probe output for %s: %w", path, err)
	}
	for _, s := range res.Streams {
		if s.CodecType == "video" {
			return s.Width, s.Height, nil
		}
	}
	return 0, 0, fmt.Errorf("no video stream in %s", path)
}
