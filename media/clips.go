package media

import (
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipforge/config"
)

// ProcessClip normalizes a downloaded footage clip for assembly: center-crop
// to the target aspect ratio, scale to the target resolution, apply the
// playback speed factor, and trim to the exact display duration so the
// concatenated track length matches the plan.
func ProcessClip(inPath, outPath string, res config.Resolution, displayDuration, speedFactor float64) error {
	v := ffmpeg.Input(inPath)

	stream := v
	if speedFactor != 1.0 {
		stream = stream.Filter("setpts", ffmpeg.Args{fmt.Sprintf("%.6f*PTS", 1/speedFactor)})
	}

	stream = stream.
		Filter("crop", ffmpeg.Args{cropExpr(res)}).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", res.Width, res.Height)})

	if displayDuration > 0 {
		stream = stream.
			Filter("trim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": fmtSeconds(displayDuration)}).
			Filter("setpts", ffmpeg.Args{"PTS-STARTPTS"})
	}

	err := ffmpeg.Output([]*ffmpeg.Stream{stream}, outPath, ffmpeg.KwArgs{
		"c:v":      config.VideoCodec,
		"crf":      config.VideoCRF,
		"preset":   config.VideoPreset,
		"r":        config.VideoFrameRate,
		"an":       "",
		"movflags": "faststart",
	}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("process clip %s: %w", inPath, err)
	}
	return nil
}

// ImageToClip turns a still image into a fixed-duration silent video clip at
// the target resolution.
func ImageToClip(inPath, outPath string, res config.Resolution, duration float64) error {
	img := ffmpeg.Input(inPath, ffmpeg.KwArgs{
		"loop":      1,
		"framerate": config.VideoFrameRate,
		"t":         fmtSeconds(duration),
	})

	stream := img.
		Filter("crop", ffmpeg.Args{cropExpr(res)}).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", res.Width, res.Height)})

	err := ffmpeg.Output([]*ffmpeg.Stream{stream}, outPath, ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"crf":     config.VideoCRF,
		"preset":  config.VideoPreset,
		"pix_fmt": "yuv420p",
		"an":      "",
	}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("image to clip %s: %w", inPath, err)
	}
	return nil
}

// TrimVideo cuts the video track to the given duration and resets its time
// base so downstream concatenation is not confused by an offset starting
// timestamp.
func TrimVideo(inPath, outPath string, duration float64) error {
	stream := ffmpeg.Input(inPath).
		Filter("trim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": fmtSeconds(duration)}).
		Filter("setpts", ffmpeg.Args{"PTS-STARTPTS"})

	err := ffmpeg.Output([]*ffmpeg.Stream{stream}, outPath, silentEncodeArgs()).
		OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("trim video %s to %.2fs: %w", inPath, duration, err)
	}
	return nil
}

// LoopVideo repeats the video track playCount times from its start, then
// hard-cuts at the given duration. Used when the footage track finished
// shorter than the voice track.
func LoopVideo(inPath, outPath string, playCount int, duration float64) error {
	if playCount < 1 {
		playCount = 1
	}
	// -stream_loop N replays the input N extra times.
	stream := ffmpeg.Input(inPath, ffmpeg.KwArgs{"stream_loop": playCount - 1}).
		Filter("trim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": fmtSeconds(duration)}).
		Filter("setpts", ffmpeg.Args{"PTS-STARTPTS"})

	err := ffmpeg.Output([]*ffmpeg.Stream{stream}, outPath, silentEncodeArgs()).
		OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("loop video %s to %.2fs: %w", inPath, duration, err)
	}
	return nil
}

// cropExpr is a center crop to the target aspect ratio that works for both
// wider and taller inputs.
func cropExpr(res config.Resolution) string {
	return fmt.Sprintf("min(iw\\,ih*%d/%d):min(ih\\,iw*%d/%d)",
		res.Width, res.Height, res.Height, res.Width)
}

func silentEncodeArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"c:v":    config.VideoCodec,
		"crf":    config.VideoCRF,
		"preset": config.VideoPreset,
		"r":      config.VideoFrameRate,
		"an":     "",
	}
}

func fmtSeconds(d float64) string {
	return fmt.Sprintf("%.3f", d)
}
