package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var rebuildJSON bool

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [process]",
	Short: "Rebuild the knowledge snapshot of a process",
	Args:  cobra.ExactArgs(1),
	RunE:  runRebuild,
}

func init() {
	rebuildCmd.Flags().BoolVar(&rebuildJSON, "json", false, "output build statistics as JSON")
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	stats, err := newRebuildAdapter(cfg.KnowledgeRoot).Rebuild(args[0])
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	if rebuildJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rebuild complete for %s: %d chunks from %d docs (matrix %dx%d)\n",
		stats.Process, stats.Chunks, stats.Documents, stats.VectorShape[0], stats.VectorShape[1])
	return nil
}
