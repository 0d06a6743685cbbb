package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var topicNotes string

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage the topic bank",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topic bank entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		bank, err := a.bank.List()
		if err != nil {
			return err
		}
		if len(bank.Topics) == 0 {
			fmt.Println("Topic bank is empty.")
			return nil
		}
		for i, t := range bank.Topics {
			fmt.Printf("%d. [%s] %s (%s)\n   id: %s\n", i+1, t.Status, t.Idea, t.Source, t.ID)
		}
		return nil
	},
}

var topicsAddCmd = &cobra.Command{
	Use:   "add <idea>",
	Short: "Add a topic idea",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		topic, err := a.bank.Add(strings.Join(args, " "), "manual", topicNotes)
		if err != nil {
			return err
		}
		fmt.Printf("Added topic %s: %s\n", topic.ID, topic.Idea)
		return nil
	},
}

var topicsExpandCmd = &cobra.Command{
	Use:   "expand <id>",
	Short: "Expand a topic into a content brief",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}

		topic, err := a.bank.Expand(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if topic == nil {
			return fmt.Errorf("topic %s not found", args[0])
		}
		fmt.Printf("Expanded %s:\n%s\n", topic.Idea, string(topic.Brief))
		return nil
	},
}

func init() {
	topicsAddCmd.Flags().StringVar(&topicNotes, "notes", "", "Notes for the topic")
	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsAddCmd)
	topicsCmd.AddCommand(topicsExpandCmd)
	rootCmd.AddCommand(topicsCmd)
}
