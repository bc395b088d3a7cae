package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okriashvili/draftdeck/internal/application/handlers"
	"github.com/okriashvili/draftdeck/internal/domain/entities"
)

func newEditCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "edit <id> <text>",
		Short: "Replace a draft's text",
		Long:  "Replaces the draft's text and records the edit in the history.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args[0], args[1], source)
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "system", "Edit source to record")

	return cmd
}

func runEdit(cmd *cobra.Command, id, text, source string) error {
	ctx := cmd.Context()

	editSource := entities.EditSource(source)
	if !editSource.Valid() {
		return fmt.Errorf("invalid source %q, valid sources: %v", source, validSources)
	}

	return withReviewHandler(func(h *handlers.ReviewHandler) error {
		draft, err := h.EditText(ctx, id, text, editSource)
		if err != nil {
			return fmt.Errorf("editing draft: %w", err)
		}

		displayDraft(draft)
		return nil
	})
}
