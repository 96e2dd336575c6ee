package config

import "time"

// Pacing defaults
const (
	// DefaultCutFrequencySeconds is the target average time between footage cuts
	DefaultCutFrequencySeconds = 3.0

	// DefaultSpeedMin / DefaultSpeedMax bound the per-clip playback speed factor
	DefaultSpeedMin = 0.9
	DefaultSpeedMax = 1.1
)

// Duration reconciliation
const (
	// DurationToleranceSeconds is the allowed |final - target| before a warning
	DurationToleranceSeconds = 1.0

	// DriftToleranceSeconds is the allowed footage/voice mismatch before the
	// footage track is trimmed or looped to the voice duration
	DriftToleranceSeconds = 0.1
)

// Music mixing
const (
	// MusicVolumeDB attenuates the background track relative to the voice
	MusicVolumeDB = -22.0

	// MusicFadeSeconds is the fade-in/fade-out length at the track extremes
	MusicFadeSeconds = 2.0
)

// Video Output Constants
const (
	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "medium"

	// VideoCRF is the constant rate factor for x264 encoding
	VideoCRF = 23

	// VideoFrameRate forces a consistent frame rate across clips so the
	// concat demuxer never sees mismatched timebases
	VideoFrameRate = 30
)

// Footage fetching
const (
	// MaxConcurrentFetches limits parallel per-segment footage fetch/render
	MaxConcurrentFetches = 3

	// PexelsHourlyLimit and PixabayHourlyLimit cap requests per provider
	// within a sliding one-hour window
	PexelsHourlyLimit  = 200
	PixabayHourlyLimit = 5000

	// RateLimitWindow is the sliding window length for provider rate limits
	RateLimitWindow = time.Hour

	// SearchCacheTTL is how long a provider search response stays valid
	SearchCacheTTL = 24 * time.Hour

	// SearchResultsPerPage is the page size requested from footage providers
	SearchResultsPerPage = 15
)

// Project layout
const (
	// BaseOutputDir is the root directory for all generation runs
	BaseOutputDir = "generated_videos"

	// FinalVideoName marks a run directory as complete
	FinalVideoName = "final_output.mp4"

	// TimestampsFile holds the word list and per-segment timings for a run
	TimestampsFile = "audio_timestamps.json"

	// LogFileName is the running text log inside a run directory
	LogFileName = "generation.log"
)

// Subtitles
const (
	// SubtitleFontSize is the caption font size in ASS play resolution units
	SubtitleFontSize = 72

	// SubtitleMaxWordsLine caps words per caption line for readability
	SubtitleMaxWordsLine = 3
)

// Resolution is a platform output resolution in pixels.
type Resolution struct {
	Width  int
	Height int
}

// PlatformResolutions maps each target platform to its output resolution.
// Short-form platforms are 9:16 vertical; youtube_long is 16:9.
var PlatformResolutions = map[string]Resolution{
	"youtube_shorts":  {Width: 1080, Height: 1920},
	"tiktok":          {Width: 1080, Height: 1920},
	"instagram_reels": {Width: 1080, Height: 1920},
	"youtube_long":    {Width: 1920, Height: 1080},
}

// ResolutionFor returns the output resolution for a platform, defaulting to
// vertical 9:16 for unknown values.
func ResolutionFor(platform string) Resolution {
	if r, ok := PlatformResolutions[platform]; ok {
		return r
	}
	return PlatformResolutions["youtube_shorts"]
}
