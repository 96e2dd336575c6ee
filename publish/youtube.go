package publish

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"clipforge/script"
)

// YouTubePublisher uploads the final artifact as a YouTube video using a
// service account.
type YouTubePublisher struct {
	service *youtube.Service
}

func NewYouTubePublisher(ctx context.Context, serviceAccountFile string) (*YouTubePublisher, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &YouTubePublisher{service: service}, nil
}

func (p *YouTubePublisher) Publish(ctx context.Context, videoPath string, sc *script.Script) error {
	file, err := os.Open(videoPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", videoPath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", videoPath, err)
	}
	log.Info().Str("video", sc.VideoName).Float64("size_mb", float64(info.Size())/(1024*1024)).Msg("uploading to youtube")

	title := sc.VideoName
	if len(title) > 100 {
		title = title[:97] + "..."
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: buildDescription(sc),
			Tags:        []string{"shorts", sc.BackgroundMusicGenre},
			CategoryId:  "22",
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           "public",
			SelfDeclaredMadeForKids: false,
		},
	}

	call := p.service.Videos.Insert([]string{"snippet", "status"}, video)
	call = call.Media(file)

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("upload video: %w", err)
	}

	log.Info().Str("url", "https://youtube.com/shorts/"+resp.Id).Msg("uploaded to youtube")
	return nil
}

func buildDescription(sc *script.Script) string {
	var b strings.Builder
	b.WriteString(sc.VideoName)
	b.WriteString("\n\n#shorts")
	if sc.BackgroundMusicGenre != "" {
		b.WriteString(" #" + sc.BackgroundMusicGenre)
	}
	return b.String()
}
