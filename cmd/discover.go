package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run an automated discovery search",
	Long:  "Search X for viral AI content via the bird CLI, analyze it, and store the discoveries.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		result, err := a.eng.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("discovery failed: %w", err)
		}

		if !result.Success {
			fmt.Printf("Discovery unavailable: %s\n", result.Message)
			return nil
		}
		if len(result.Items) == 0 {
			fmt.Println("No new discoveries.")
			return nil
		}

		fmt.Printf("Stored %d new discoveries:\n", result.Total)
		for i, item := range result.Items {
			topic := item.SuggestedTopic
			if topic == "" {
				topic = item.CoreIdea
			}
			fmt.Printf("%d. [%d/10] %s\n", i+1, item.LatamScore, topic)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
