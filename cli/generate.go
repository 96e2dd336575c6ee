package cli

import (
	"github.com/spf13/cobra"

	"clipforge/config"
	"clipforge/script"
)

var (
	flagOut          string
	flagMusicDir     string
	flagClean        bool
	flagConcurrency  int
	flagCutFrequency float64
)

var generateCmd = &cobra.Command{
	Use:   "generate <config.json>",
	Short: "Generate one video from a script config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := script.Load(args[0])
		if err != nil {
			return err
		}

		generate := newGenerator(runSettings{
			ConfigPath:    args[0],
			OutDir:        flagOut,
			MusicDir:      flagMusicDir,
			CleanPrevious: flagClean,
			Concurrency:   flagConcurrency,
			CutFrequency:  flagCutFrequency,
		})

		_, err = generate(cmd.Context(), sc)
		return err
	},
}

func init() {
	generateCmd.Flags().StringVarP(&flagOut, "out", "o", config.BaseOutputDir, "base output directory")
	generateCmd.Flags().StringVar(&flagMusicDir, "music-dir", "music", "root of the genre-keyed music library")
	generateCmd.Flags().BoolVar(&flagClean, "clean", false, "remove incomplete earlier runs for the same video")
	generateCmd.Flags().IntVar(&flagConcurrency, "concurrency", config.MaxConcurrentFetches, "parallel footage fetches")
	generateCmd.Flags().Float64Var(&flagCutFrequency, "cut-frequency", config.DefaultCutFrequencySeconds, "target seconds between footage cuts")

	rootCmd.AddCommand(generateCmd)
}
