package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [process] [file.txt]",
	Short: "Upload a raw SOP document into a process",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := processAdapter{root: cfg.KnowledgeRoot}.Upload(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to %s.\n", name, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
