package commands

import (
	"io"

	"github.com/DrSkyle/lineblame/pkg/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Open a file in the interactive blame viewer",
	Long: `Open a file and annotate the selected lines with git blame.

Keys: j/k move, J/K extend the selection, b toggles git blame,
enter shows commit details, r reloads, q quits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The terminal belongs to the viewer; logs go to --log-file or nowhere.
		s, closeFn, err := newSession(cmd.Context(), io.Discard, nil)
		if err != nil {
			return err
		}
		defer closeFn()

		return tui.Run(cmd.Context(), s, args[0], s.Config().Watch, tea.WithAltScreen())
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
