package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okriashvili/draftdeck/internal/domain/services"
)

func newSimilarCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "similar <subject>",
		Short: "Find past drafts similar to a subject",
		Long:  "Performs semantic search over indexed drafts to find what was already posted about a subject.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimilar(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", services.DefaultSimilarLimit, "Maximum number of results")

	return cmd
}

func runSimilar(cmd *cobra.Command, subject string, limit int) error {
	ctx := cmd.Context()

	return withInternalDeps(func(d *internalDeps) error {
		if err := ensureSimilarityIndex(ctx, d); err != nil {
			return err
		}

		result, err := d.SimilarHandler.Handle(ctx, subject, limit)
		if err != nil {
			return fmt.Errorf("searching similar drafts: %w", err)
		}

		if len(result.Matches) == 0 {
			fmt.Println("No similar drafts found.")
			return nil
		}

		fmt.Printf("Found %d similar drafts:\n\n", len(result.Matches))
		for i, match := range result.Matches {
			fmt.Printf("%d. %s  [%s]  %s  (score %.2f)\n", i+1, match.DraftID, match.Status, match.Subject, match.Score)
		}
		return nil
	})
}
