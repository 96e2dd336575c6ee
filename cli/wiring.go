package cli

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"clipforge/api"
	"clipforge/broll"
	"clipforge/config"
	"clipforge/pipeline"
	"clipforge/plan"
	"clipforge/publish"
	"clipforge/script"
	"clipforge/transcript"
	"clipforge/voice"
)

// runSettings carry the per-invocation knobs shared by generate, worker and
// serve.
type runSettings struct {
	ConfigPath    string
	OutDir        string
	MusicDir      string
	CleanPrevious bool
	Concurrency   int
	CutFrequency  float64
}

// newGenerator assembles the collaborator stack from the environment and
// returns a function that runs the full pipeline for one script.
func newGenerator(settings runSettings) api.GenerateFunc {
	synth := voice.NewHTTPSynthesizer(
		getenv("TTS_URL", "http://localhost:8880/v1/audio/speech"),
		getenv("TTS_MODEL", "kokoro"),
	)
	scribe := transcript.NewWhisperCPP(
		getenv("WHISPER_BIN", "whisper-cli"),
		getenv("WHISPER_MODEL", "models/ggml-base.en.bin"),
	)

	var primary, fallback broll.Provider
	if key := getenv("PEXELS_API_KEY", ""); key != "" {
		primary = broll.NewPexelsProvider(key)
	}
	if key := getenv("PIXABAY_API_KEY", ""); key != "" {
		fallback = broll.NewPixabayProvider(key)
	}
	if primary == nil {
		primary, fallback = fallback, nil
	}

	cache := newSearchCache()
	limiter := broll.NewRateLimiter(config.RateLimitWindow, map[string]int{
		"pexels":  config.PexelsHourlyLimit,
		"pixabay": config.PixabayHourlyLimit,
	})

	publisher := newPublisher()

	pacing := plan.Pacing{
		CutFrequencySeconds: settings.CutFrequency,
		SpeedMin:            config.DefaultSpeedMin,
		SpeedMax:            config.DefaultSpeedMax,
	}

	return func(ctx context.Context, sc *script.Script) (string, error) {
		fetcher := broll.NewFetcher(primary, fallback, cache, limiter, config.ResolutionFor(sc.TargetPlatform))
		runner := pipeline.NewRunner(synth, scribe, fetcher, publisher, pipeline.Options{
			BaseDir:       settings.OutDir,
			MusicDir:      settings.MusicDir,
			ConfigPath:    settings.ConfigPath,
			CleanPrevious: settings.CleanPrevious,
			Pacing:        pacing,
			Concurrency:   settings.Concurrency,
		})
		return runner.Run(ctx, sc)
	}
}

// newSearchCache prefers a shared redis cache when REDIS_ADDR is set, and
// falls back to an on-disk cache.
func newSearchCache() broll.Cache {
	if addr := getenv("REDIS_ADDR", ""); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getenv("REDIS_PASSWORD", ""),
		})
		log.Info().Str("addr", addr).Msg("using redis search cache")
		return broll.NewRedisCache(client)
	}

	cache, err := broll.NewDiskCache(".cache")
	if err != nil {
		log.Warn().Err(err).Msg("disk cache unavailable, searches will not be cached")
		return nil
	}
	return cache
}

// newPublisher builds the optional publish fan-out from the environment.
// Nothing configured means the artifact stays local.
func newPublisher() publish.Publisher {
	var targets publish.Multi

	if bucket := getenv("S3_BUCKET", ""); bucket != "" {
		p, err := publish.NewS3Publisher(context.Background(), bucket, getenv("AWS_REGION", ""))
		if err != nil {
			log.Warn().Err(err).Msg("s3 publisher unavailable")
		} else {
			targets = append(targets, p)
		}
	}

	if saFile := getenv("YOUTUBE_SERVICE_ACCOUNT_FILE", ""); saFile != "" {
		p, err := publish.NewYouTubePublisher(context.Background(), saFile)
		if err != nil {
			log.Warn().Err(err).Msg("youtube publisher unavailable")
		} else {
			targets = append(targets, p)
		}
	}

	if len(targets) == 0 {
		return nil
	}
	return targets
}

func kafkaBrokers() []string {
	return strings.Split(getenv("KAFKA_BROKERS", "localhost:9092"), ",")
}
