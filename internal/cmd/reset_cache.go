package cmd

import (
	"fmt"

	"github.com/aziis98/striplines/internal/util"
	"github.com/spf13/cobra"
)

var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Forget all cached check results",
	Long: util.MustDedent(`
		Drop every result stored by check, so the next run checks all files
		again regardless of their hash.
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Resetting check cache...")
		return db.Reset()
	},
}

func init() {
	rootCmd.AddCommand(resetCacheCmd)
}
