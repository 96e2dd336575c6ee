package media

import (
	"fmt"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipforge/config"
)

// ExtractAudio writes the audio track of a media file as mp3.
func ExtractAudio(inPath, outPath string) error {
	err := ffmpeg.Input(inPath).
		Output(outPath, ffmpeg.KwArgs{
			"vn":     "",
			"acodec": "libmp3lame",
			"b:a":    config.AudioBitrate,
		}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("extract audio from %s: %w", inPath, err)
	}
	return nil
}

// MixMusic overlays a background music track onto the voice track. The music
// is attenuated by volumeDB, replayed playCount times when shorter than the
// voice, truncated to the exact voice duration, and given a single fade-in
// and fade-out at the extremes. The voice track is mixed in unmodified and
// its duration wins.
func MixMusic(voicePath, musicPath, outPath string, voiceDuration float64, playCount int) error {
	if playCount < 1 {
		playCount = 1
	}

	voice := ffmpeg.Input(voicePath)
	music := ffmpeg.Input(musicPath, ffmpeg.KwArgs{"stream_loop": playCount - 1}).
		Filter("volume", ffmpeg.Args{fmt.Sprintf("%.1fdB", config.MusicVolumeDB)}).
		Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{"duration": fmtSeconds(voiceDuration)}).
		Filter("asetpts", ffmpeg.Args{"PTS-STARTPTS"})

	fade := config.MusicFadeSeconds
	if voiceDuration > 2*fade {
		music = music.
			Filter("afade", ffmpeg.Args{}, ffmpeg.KwArgs{"t": "in", "st": 0, "d": fade}).
			Filter("afade", ffmpeg.Args{}, ffmpeg.KwArgs{"t": "out", "st": fmtSeconds(voiceDuration - fade), "d": fade})
	}

	mixed := ffmpeg.Filter([]*ffmpeg.Stream{voice, music}, "amix", ffmpeg.Args{},
		ffmpeg.KwArgs{"inputs": 2, "duration": "first", "normalize": 0})

	err := ffmpeg.Output([]*ffmpeg.Stream{mixed}, outPath, ffmpeg.KwArgs{
		"acodec": "libmp3lame",
		"b:a":    config.AudioBitrate,
	}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("mix music %s onto %s: %w", musicPath, voicePath, err)
	}
	return nil
}

// Mux combines the reconciled video with the mixed audio into the final
// artifact.
func Mux(videoPath, audioPath, outPath string) error {
	video := ffmpeg.Input(videoPath)
	audio := ffmpeg.Input(audioPath)

	err := ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outPath, ffmpeg.KwArgs{
		"c:v":      config.VideoCodec,
		"c:a":      config.AudioCodec,
		"b:a":      config.AudioBitrate,
		"preset":   config.VideoPreset,
		"crf":      config.VideoCRF,
		"movflags": "faststart",
		"shortest": "",
	}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("mux %s + %s: %w", videoPath, audioPath, err)
	}
	return nil
}
