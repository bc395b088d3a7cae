package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okriashvili/draftdeck/internal/application/handlers"
)

func newRegenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Regenerate a draft's text or image",
	}

	cmd.AddCommand(newRegenerateTextCmd(), newRegenerateImageCmd())

	return cmd
}

func newRegenerateTextCmd() *cobra.Command {
	var instruction string

	cmd := &cobra.Command{
		Use:   "text <id>",
		Short: "Regenerate a draft's text",
		Long:  "Replaces the draft's text with fresh AI copy, recorded as an ai-regeneration edit.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegenerateText(cmd, args[0], instruction)
		},
	}

	cmd.Flags().StringVarP(&instruction, "instruction", "i", "", "Instruction to steer the rewrite")

	return cmd
}

func newRegenerateImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <id>",
		Short: "Regenerate a draft's image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegenerateImage(cmd, args[0])
		},
	}
}

func runRegenerateText(cmd *cobra.Command, id, instruction string) error {
	ctx := cmd.Context()

	return withReviewHandler(func(h *handlers.ReviewHandler) error {
		draft, err := h.RegenerateText(ctx, id, instruction)
		if err != nil {
			return fmt.Errorf("regenerating text: %w", err)
		}

		displayDraft(draft)
		return nil
	})
}

func runRegenerateImage(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()

	return withReviewHandler(func(h *handlers.ReviewHandler) error {
		draft, err := h.RegenerateImage(ctx, id)
		if err != nil {
			return fmt.Errorf("regenerating image: %w", err)
		}

		displayDraft(draft)
		return nil
	})
}
