package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"clipforge/api"
	"clipforge/config"
	"clipforge/kafkax"
)

var (
	flagAddr          string
	flagQueue         bool
	flagServeOut      string
	flagServeMusicDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generation API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		generate := newGenerator(runSettings{
			OutDir:       flagServeOut,
			MusicDir:     flagServeMusicDir,
			Concurrency:  config.MaxConcurrentFetches,
			CutFrequency: config.DefaultCutFrequencySeconds,
		})

		var producer *kafkax.Producer
		if flagQueue {
			var err error
			producer, err = kafkax.NewProducer(kafkaBrokers(), getenv("KAFKA_TOPIC", "clipforge.generate"))
			if err != nil {
				return err
			}
			defer producer.Close()
		}

		server := api.NewServer(generate, producer)
		log.Info().Str("addr", flagAddr).Bool("queued", flagQueue).Msg("serving generation api")
		return server.Router().Run(flagAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().BoolVar(&flagQueue, "queue", false, "enqueue requests to Kafka instead of running in-process")
	serveCmd.Flags().StringVar(&flagServeOut, "out", config.BaseOutputDir, "base output directory")
	serveCmd.Flags().StringVar(&flagServeMusicDir, "music-dir", "music", "root of the genre-keyed music library")

	rootCmd.AddCommand(serveCmd)
}
