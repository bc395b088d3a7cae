package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <subject>",
		Short: "Create a draft and generate its text and image",
		Long:  "Creates a new draft for the subject and generates post text and a product image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args[0])
		},
	}
}

func runCreate(cmd *cobra.Command, subject string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		draft, err := d.DraftHandler.Create(ctx, subject)
		if draft != nil {
			displayDraft(draft)
		}
		if err != nil {
			return fmt.Errorf("generating draft content: %w", err)
		}
		return nil
	})
}
