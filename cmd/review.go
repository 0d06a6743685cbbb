package cmd

import (
	"github.com/spf13/cobra"

	"github.com/user/pluma/internal/tui"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review discoveries in a TUI",
	Long:  "Browse analyzed discoveries, import the good ones into the topic bank, dismiss the rest.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		return tui.Run(cmd.Context(), a.eng)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
