package script

import (
	"os"
	"path/filepath"
	"testing"
)

func validScript() Script {
	return Script{
		VideoName:             "Test Video",
		TargetPlatform:        "youtube_shorts",
		TargetDurationSeconds: 60,
		BackgroundMusicGenre:  "lofi",
		VoiceName:             "af_heart",
		Segments: []Segment{
			{ID: 1, AudioText: "hello world", Clips: []ClipSpec{{Kind: KindVideo, SearchQuery: "city"}}},
		},
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Script)
		wantErr bool
	}{
		{"valid", func(s *Script) {}, false},
		{"missing name", func(s *Script) { s.VideoName = "" }, true},
		{"bad platform", func(s *Script) { s.TargetPlatform = "vimeo" }, true},
		{"zero duration", func(s *Script) { s.TargetDurationSeconds = 0 }, true},
		{"bad voice", func(s *Script) { s.VoiceName = "hal9000" }, true},
		{"bad genre", func(s *Script) { s.BackgroundMusicGenre = "polka" }, true},
		{"no segments", func(s *Script) { s.Segments = nil }, true},
		{"empty audio text", func(s *Script) { s.Segments[0].AudioText = "  " }, true},
		{"duplicate segment id", func(s *Script) {
			s.Segments = append(s.Segments, Segment{ID: 1, AudioText: "again"})
		}, true},
		{"bad clip kind", func(s *Script) { s.Segments[0].Clips[0].Kind = "gif" }, true},
		{"empty clip kind ok", func(s *Script) { s.Segments[0].Clips[0].Kind = "" }, false},
		{"negative min duration", func(s *Script) { s.Segments[0].Clips[0].MinDuration = -1 }, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := validScript()
			c.mutate(&s)
			err := s.Validate()
			if (err != nil) != c.wantErr {
				t.Fatalf("Validate() error = %v; wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{
		"video_name": "Loaded Video",
		"target_platform": "tiktok",
		"target_duration_seconds": 30,
		"background_music_genre": "ambient",
		"voice_name": "am_adam",
		"script_segments": [
			{"segment_id": 1, "audio_text": "first", "broll_clips": [{"type": "video", "search_query": "forest", "min_duration": 3}]},
			{"segment_id": 2, "audio_text": "second", "broll_clips": [{"type": "image", "search_query": "mountain"}]}
		]
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if s.VideoName != "Loaded Video" || len(s.Segments) != 2 {
		t.Fatalf("unexpected script: %+v", s)
	}
	if s.Segments[1].Clips[0].Kind != KindImage {
		t.Fatalf("clip kind = %q; want image", s.Segments[1].Clips[0].Kind)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"video_name": ""}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestSafeName(t *testing.T) {
	s := Script{VideoName: "My Cool Video"}
	if got := s.SafeName(); got != "My_Cool_Video" {
		t.Fatalf("SafeName = %q", got)
	}
}
