package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"clipforge/config"
	"clipforge/kafkax"
	"clipforge/script"
)

var (
	flagWorkerOut      string
	flagWorkerMusicDir string
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume generation requests from Kafka and process them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		generate := newGenerator(runSettings{
			OutDir:       flagWorkerOut,
			MusicDir:     flagWorkerMusicDir,
			Concurrency:  config.MaxConcurrentFetches,
			CutFrequency: config.DefaultCutFrequencySeconds,
		})

		handler := &kafkax.TypedMessageHandler[script.Script]{
			Validate: func(sc *script.Script) bool {
				if err := sc.Validate(); err != nil {
					log.Warn().Err(err).Msg("dropping invalid generation request")
					return false
				}
				return true
			},
			Process: func(ctx context.Context, sc *script.Script) error {
				_, err := generate(ctx, sc)
				return err
			},
			AlwaysMark: true,
		}

		consumer, err := kafkax.NewConsumer(kafkax.ConsumerConfig{
			Brokers: kafkaBrokers(),
			Topic:   getenv("KAFKA_TOPIC", "clipforge.generate"),
			GroupID: getenv("KAFKA_GROUP_ID", "clipforge-workers"),
			Handler: handler,
		})
		if err != nil {
			return err
		}
		defer consumer.Close()

		if err := consumer.Start(ctx); err != nil {
			return err
		}

		<-ctx.Done()
		log.Info().Msg("worker shutting down")
		return nil
	},
}

func init() {
	workerCmd.Flags().StringVar(&flagWorkerOut, "out", config.BaseOutputDir, "base output directory")
	workerCmd.Flags().StringVar(&flagWorkerMusicDir, "music-dir", "music", "root of the genre-keyed music library")

	rootCmd.AddCommand(workerCmd)
}
