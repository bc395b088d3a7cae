package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okriashvili/draftdeck/internal/application/handlers"
)

func newListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts",
		Long:  "Lists drafts newest first, optionally filtered by status.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, status)
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (draft, approved, rejected, published)")

	return cmd
}

func runList(cmd *cobra.Command, status string) error {
	ctx := cmd.Context()

	return withDraftHandler(func(h *handlers.DraftHandler) error {
		drafts, err := h.List(ctx, status)
		if err != nil {
			return fmt.Errorf("listing drafts: %w", err)
		}

		if len(drafts) == 0 {
			fmt.Println("No drafts found.")
			return nil
		}

		fmt.Printf("Showing %d drafts:\n\n", len(drafts))
		for _, draft := range drafts {
			fmt.Printf("%s  [%s]  %s\n", draft.ID, draft.Status, draft.Subject)
		}
		return nil
	})
}
