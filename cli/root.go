// Package cli wires the generation pipeline into commands.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"clipforge/logging"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "clipforge",
	Short: "Turn a declarative video script into a finished short-form video",
	Long: `clipforge synthesizes narration, fetches matching stock footage cut at a
target pace, burns word-level captions, mixes background music, and produces
a final video whose duration matches the configured target.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine, real env vars still apply.
		_ = godotenv.Load()
		logging.Init(flagVerbose)
	},
	SilenceUsage: true,
}

// Execute runs the CLI. Fatal pipeline errors exit nonzero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
