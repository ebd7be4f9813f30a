package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"processgpt/internal/auth"
	"processgpt/internal/service"
	"processgpt/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive console (agent chat / trainer dashboard)",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	users, err := auth.Open(cfg.UsersDB)
	if err != nil {
		return err
	}
	defer users.Close()

	svc := tui.Services{
		Auth:      users,
		Router:    service.NewRouter(cfg.KnowledgeRoot),
		Rebuilder: newRebuildAdapter(cfg.KnowledgeRoot),
		Processes: processAdapter{root: cfg.KnowledgeRoot},
		TopK:      cfg.TopK,
	}

	_, err = tea.NewProgram(tui.New(svc), tea.WithAltScreen()).Run()
	return err
}
