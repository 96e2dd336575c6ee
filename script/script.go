package script

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// MediaKind is the type of footage a clip spec asks for.
type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindImage MediaKind = "image"
)

// ClipSpec is one authored footage intent inside a segment. MinDuration is
// advisory: once the cut planner subdivides a segment, equal subdivision wins.
type ClipSpec struct {
	Kind        MediaKind `json:"type"`
	SearchQuery string    `json:"search_query"`
	MinDuration float64   `json:"min_duration"`
}

// Segment is one authored unit of narration plus its footage intents.
type Segment struct {
	ID        int        `json:"segment_id"`
	AudioText string     `json:"audio_text"`
	Clips     []ClipSpec `json:"broll_clips"`
}

// Script is the validated in-memory form of an authored video config.
// Immutable once loaded; every pipeline stage reads it, none write it.
type Script struct {
	VideoName             string    `json:"video_name"`
	TargetPlatform        string    `json:"target_platform"`
	TargetDurationSeconds float64   `json:"target_duration_seconds"`
	BackgroundMusicGenre  string    `json:"background_music_genre"`
	VoiceName             string    `json:"voice_name"`
	Segments              []Segment `json:"script_segments"`
}

// ValidPlatforms are the supported publishing targets.
var ValidPlatforms = []string{"youtube_shorts", "tiktok", "instagram_reels", "youtube_long"}

// ValidVoices are the American English voices supported by the TTS collaborator.
var ValidVoices = []string{
	// Female voices
	"af_heart", "af_alloy", "af_aoede", "af_bella", "af_jessica",
	"af_kore", "af_nicole", "af_nova", "af_river", "af_sarah", "af_sky",
	// Male voices
	"am_adam", "am_echo", "am_eric", "am_fenrir", "am_liam",
	"am_michael", "am_onyx", "am_puck", "am_santa",
}

// ValidGenres are the background music library genres.
var ValidGenres = []string{"lofi", "trap", "hiphop", "edm", "ambient"}

// Load reads and validates a script config from a JSON file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks required fields and allow-listed values. Any failure here
// aborts the run before a stage executes.
func (s *Script) Validate() error {
	if s.VideoName == "" {
		return fmt.Errorf("missing required field: video_name")
	}
	if !contains(ValidPlatforms, s.TargetPlatform) {
		return fmt.Errorf("invalid platform: %q, must be one of: %s",
			s.TargetPlatform, strings.Join(ValidPlatforms, ", "))
	}
	if s.TargetDurationSeconds <= 0 {
		return fmt.Errorf("target_duration_seconds must be > 0, got %g", s.TargetDurationSeconds)
	}
	if !contains(ValidVoices, s.VoiceName) {
		return fmt.Errorf("invalid voice: %q, must be one of: %s",
			s.VoiceName, strings.Join(ValidVoices, ", "))
	}
	if !contains(ValidGenres, s.BackgroundMusicGenre) {
		return fmt.Errorf("invalid genre: %q, must be one of: %s",
			s.BackgroundMusicGenre, strings.Join(ValidGenres, ", "))
	}
	if len(s.Segments) == 0 {
		return fmt.Errorf("script_segments cannot be empty")
	}

	seen := make(map[int]bool, len(s.Segments))
	for _, seg := range s.Segments {
		if strings.TrimSpace(seg.AudioText) == "" {
			return fmt.Errorf("segment %d missing audio_text", seg.ID)
		}
		if seen[seg.ID] {
			return fmt.Errorf("duplicate segment_id: %d", seg.ID)
		}
		seen[seg.ID] = true

		for clipIdx, clip := range seg.Clips {
			switch clip.Kind {
			case KindVideo, KindImage, "":
				// empty kind defaults to video at fetch time
			default:
				return fmt.Errorf("segment %d clip %d: type must be %q or %q",
					seg.ID, clipIdx, KindVideo, KindImage)
			}
			if clip.MinDuration < 0 {
				return fmt.Errorf("segment %d clip %d: min_duration must be >= 0", seg.ID, clipIdx)
			}
		}
	}
	return nil
}

// SafeName returns the video name with spaces replaced, suitable for a
// directory name.
func (s *Script) SafeName() string {
	return strings.ReplaceAll(s.VideoName, " ", "_")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
