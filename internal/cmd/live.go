package cmd

import (
	"github.com/aziis98/striplines/internal/ui"
	"github.com/aziis98/striplines/internal/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Interactive dedent playground",
	Long: util.MustDedent(`
		Start an interactive terminal UI to try out blocks. Shows the prefix
		that would be stripped and the resulting text as you type.
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Enable tea logging only when the TUI is actually used
		if cfg.Verbose {
			f, err := tea.LogToFile("debug.log", "debug")
			if err == nil {
				defer f.Close()
			}
		}

		return ui.New(cfg.Prefix, cfg.Verbose).HandleLiveCommand()
	},
}

func init() {
	rootCmd.AddCommand(liveCmd)
}
