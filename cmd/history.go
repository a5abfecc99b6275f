package cmd

import (
	"fmt"

	cobra "github.com/spf13/cobra"

	storage "github.com/dodocode/screenpilot/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently run tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.History.Enabled {
			fmt.Println("History is disabled in the configuration.")
			return nil
		}

		store, err := storage.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer func() { _ = store.Close() }()

		limit, _ := cmd.Flags().GetInt("limit")
		summaries, err := store.ListTasks(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if len(summaries) == 0 {
			fmt.Println("No tasks recorded yet.")
			return nil
		}

		for _, s := range summaries {
			task := s.Task
			if len(task) > 60 {
				task = task[:57] + "..."
			}
			fmt.Printf("%s  %-16s %3d turns  %s  %s\n",
				s.Started.Format("2006-01-02 15:04"), s.Status, s.Turns, s.TaskID[:8], task)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Print the transcript of one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}
		defer func() { _ = store.Close() }()

		entries, err := store.GetTranscript(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		for _, entry := range entries {
			fmt.Printf("[%s] %s: %s\n",
				entry.Time.Format("15:04:05"), entry.Message.Role, entry.Message.Content)
			if entry.Message.ToolCalls != nil {
				for _, call := range *entry.Message.ToolCalls {
					fmt.Printf("           -> %s(%s)\n", call.Function.Name, call.Function.Arguments)
				}
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of tasks to list")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
