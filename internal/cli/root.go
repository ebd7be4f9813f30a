// Package cli implements the processgpt command tree.
package cli

import (
	"github.com/spf13/cobra"

	"processgpt/internal/config"
	"processgpt/internal/logger"
)

var (
	cfgPath string
	verbose bool

	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "processgpt",
	Short: "Process-locked SOP retrieval assistant",
	Long: `ProcessGPT answers agent questions from approved per-process SOP
documents and lets trainers manage documents and rebuild the searchable
knowledge snapshot of a process.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		var err error
		if cfgPath != "" {
			cfg, err = config.Load(cfgPath)
		} else {
			cfg, _, err = config.LoadDefault()
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"path to YAML config (defaults to ./config.yaml, then ~/.config/processgpt/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose pipeline logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
