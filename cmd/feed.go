package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/pluma/internal/discovery"
)

var feedURL string

var feedCmd = &cobra.Command{
	Use:   "feed [file]",
	Short: "Feed content items for analysis",
	Long: "Analyze externally supplied content and store the discoveries.\n" +
		"Reads a JSON array of items from a file or stdin, or fetches a single URL with --url.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		var items []map[string]any
		if feedURL != "" {
			item, err := discovery.NewFetcher().FetchURL(cmd.Context(), feedURL)
			if err != nil {
				return fmt.Errorf("failed to fetch URL: %w", err)
			}
			items = append(items, item)
		} else {
			var reader io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				reader = f
			}
			if err := json.NewDecoder(reader).Decode(&items); err != nil {
				return fmt.Errorf("failed to parse items: %w", err)
			}
		}

		result, err := a.eng.Feed(cmd.Context(), items)
		if err != nil {
			return fmt.Errorf("feed failed: %w", err)
		}
		if !result.Success {
			return fmt.Errorf("%s", result.Error)
		}

		fmt.Printf("Analyzed %d items, stored %d discoveries.\n", len(items), result.Total)
		return nil
	},
}

func init() {
	feedCmd.Flags().StringVar(&feedURL, "url", "", "Fetch and feed a single URL")
	rootCmd.AddCommand(feedCmd)
}
