package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okriashvili/draftdeck/internal/application/handlers"
	"github.com/okriashvili/draftdeck/internal/domain/entities"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a draft",
		Long:  "Shows a draft's full content. Without an id, shows the latest draft.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return runShow(cmd, id)
		},
	}
}

func runShow(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()

	return withDraftHandler(func(h *handlers.DraftHandler) error {
		var draft *entities.Draft
		var err error
		if id == "" {
			draft, err = h.Latest(ctx)
		} else {
			draft, err = h.Get(ctx, id)
		}
		if err != nil {
			return fmt.Errorf("loading draft: %w", err)
		}

		displayDraft(draft)
		return nil
	})
}

func displayDraft(draft *entities.Draft) {
	fmt.Printf("ID:      %s\n", draft.ID)
	fmt.Printf("Subject: %s\n", draft.Subject)
	fmt.Printf("Status:  %s\n", draft.Status)
	if draft.Text != "" {
		fmt.Printf("\n%s\n", draft.Text)
	} else {
		fmt.Println("\n(no text yet)")
	}
	if draft.ImageRef != "" {
		fmt.Printf("\nImage:   %s\n", draft.ImageRef)
	}
	if draft.ExternalRef != "" {
		fmt.Printf("Chat:    %s\n", draft.ExternalRef)
	}
	fmt.Printf("Created: %s\n", draft.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated: %s\n", draft.UpdatedAt.Format("2006-01-02 15:04:05"))
	if draft.PublishedAt != nil {
		fmt.Printf("Published: %s\n", draft.PublishedAt.Format("2006-01-02 15:04:05"))
	}
}
