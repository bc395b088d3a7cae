package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okriashvili/draftdeck/internal/application/handlers"
	"github.com/okriashvili/draftdeck/internal/domain/entities"
)

func newApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a draft for publishing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReviewAction(cmd, args[0], "approve")
		},
	}
}

func newRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReviewAction(cmd, args[0], "reject")
		},
	}
}

func newPublishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish an approved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReviewAction(cmd, args[0], "publish")
		},
	}
}

func runReviewAction(cmd *cobra.Command, id, action string) error {
	ctx := cmd.Context()

	return withReviewHandler(func(h *handlers.ReviewHandler) error {
		var draft *entities.Draft
		var err error
		switch action {
		case "approve":
			draft, err = h.Approve(ctx, id)
		case "reject":
			draft, err = h.Reject(ctx, id)
		case "publish":
			draft, err = h.Publish(ctx, id)
		}
		if err != nil {
			return fmt.Errorf("applying %s: %w", action, err)
		}

		fmt.Printf("Draft %s is now %s.\n", draft.ID, draft.Status)
		return nil
	})
}
