package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okriashvili/draftdeck/internal/application/handlers"
)

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show a draft's edit history",
		Long:  "Shows every text edit applied to the draft, oldest first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args[0])
		},
	}
}

func runHistory(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()

	return withDraftHandler(func(h *handlers.DraftHandler) error {
		entries, err := h.History(ctx, id)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No edits recorded.")
			return nil
		}

		fmt.Printf("%d edits:\n\n", len(entries))
		for i, entry := range entries {
			fmt.Printf("%d. [%s] %s\n", i+1, entry.Source, entry.CreatedAt.Format("2006-01-02 15:04:05"))
			if entry.PreviousText != "" {
				fmt.Printf("   - %s\n", entry.PreviousText)
			}
			fmt.Printf("   + %s\n", entry.NewText)
			fmt.Println()
		}
		return nil
	})
}
