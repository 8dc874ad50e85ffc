package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open an interactive dashboard for the active schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := activeSchedule(context.Background(), cmd, app)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newBoard(app, s.ID), tea.WithAltScreen()).Run()
			return err
		},
	}
}
