package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	genTopicID      string
	genTopic        string
	genFormat       string
	genDiscoveryID  string
	genInstructions string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a newsletter guide",
	Long: "Generate a publication-ready guide from a topic bank entry, " +
		"a free-text topic, or a stored discovery.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		if genDiscoveryID != "" {
			result, err := a.svc.FromDiscovery(cmd.Context(), genDiscoveryID, genInstructions)
			if err != nil {
				return err
			}
			fmt.Printf("Generated %s (%d words)\n", result.Filename, result.WordCount)
			return nil
		}

		if genTopicID == "" && genTopic == "" {
			return fmt.Errorf("provide --topic, --topic-id, or --discovery")
		}
		result, err := a.svc.FromTopic(cmd.Context(), genTopicID, genTopic, genFormat, genInstructions)
		if err != nil {
			return err
		}
		fmt.Printf("Generated %s (%d words)\n", result.Filename, result.WordCount)
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&genTopicID, "topic-id", "", "Topic bank entry to generate from")
	generateCmd.Flags().StringVar(&genTopic, "topic", "", "Free-text topic to generate from")
	generateCmd.Flags().StringVar(&genFormat, "format", "guia_practica", "Newsletter format")
	generateCmd.Flags().StringVar(&genDiscoveryID, "discovery", "", "Discovery to generate from")
	generateCmd.Flags().StringVar(&genInstructions, "instructions", "", "Additional instructions")
	rootCmd.AddCommand(generateCmd)
}
