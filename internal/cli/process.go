package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"processgpt/internal/knowledge"
	"processgpt/internal/process"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Manage processes (isolated knowledge domains)",
}

var processCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a process and its raw document directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := process.Create(cfg.KnowledgeRoot, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Process ready: %s\n", id)
		return nil
	},
}

var processListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processes and their build state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := process.List(cfg.KnowledgeRoot)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No processes found.")
			return nil
		}
		for _, id := range ids {
			state := "not built"
			if m, err := knowledge.LoadManifest(process.Dir(cfg.KnowledgeRoot, id)); err == nil {
				state = fmt.Sprintf("built %s (%d chunks from %d docs)",
					m.BuiltAt.Format("2006-01-02 15:04"), m.Chunks, m.Documents)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, state)
		}
		return nil
	},
}

func init() {
	processCmd.AddCommand(processCreateCmd)
	processCmd.AddCommand(processListCmd)
	rootCmd.AddCommand(processCmd)
}
