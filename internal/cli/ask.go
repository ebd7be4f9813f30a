package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"processgpt/internal/service"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [process] [question]",
	Short: "Ask a question against one process's knowledge base",
	Args:  cobra.ExactArgs(2),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	topK := askTopK
	if topK <= 0 {
		topK = cfg.TopK
	}
	router := service.NewRouter(cfg.KnowledgeRoot)
	ans := router.Answer(args[0], args[1], topK)

	if askJSON {
		data, err := json.MarshalIndent(ans, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ans.Answer)
	if len(ans.Sources) > 0 {
		fmt.Fprintln(out, "\nSources:")
		for _, s := range ans.Sources {
			fmt.Fprintf(out, "- %s#%d (score=%.3f)\n", s.Source, s.ChunkIndex, s.Score)
		}
	}
	return nil
}
