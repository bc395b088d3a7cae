package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okriashvili/draftdeck/internal/application/handlers"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a draft and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0])
		},
	}
}

func runDelete(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()

	return withDraftHandler(func(h *handlers.DraftHandler) error {
		if err := h.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting draft: %w", err)
		}

		fmt.Printf("Draft %s deleted.\n", id)
		return nil
	})
}
