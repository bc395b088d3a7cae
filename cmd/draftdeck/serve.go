package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/okriashvili/draftdeck/internal/domain/services"
	"github.com/okriashvili/draftdeck/internal/server"
)

func newServeCmd() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the review dashboard server",
		Long:  "Starts the HTTP API for the review dashboard along with the publish scheduler.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, address)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Listen address (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, address string) error {
	ctx := cmd.Context()

	return withInternalDeps(func(d *internalDeps) error {
		if address == "" {
			address = d.Config.Server.Address
		}

		// Similarity search degrades gracefully when qdrant is down.
		if err := ensureSimilarityIndex(ctx, d); err != nil {
			d.log.WithError(err).Warn("similarity index unavailable, semantic search disabled")
		}

		scheduler := services.NewScheduler(
			d.gateway,
			time.Duration(d.Config.Scheduler.IntervalSeconds)*time.Second,
			d.log,
		)
		scheduler.Start(ctx)
		defer scheduler.Stop()

		srv, err := server.New(
			d.DraftHandler,
			d.ReviewHandler,
			d.SimilarHandler,
			scheduler,
			d.log,
		)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		httpServer := &http.Server{
			Addr:    address,
			Handler: srv.Routes(),
		}

		errCh := make(chan error, 1)
		go func() {
			d.log.WithField("address", address).Info("dashboard server listening")
			errCh <- httpServer.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			d.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down server: %w", err)
			}
			return nil
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("serving: %w", err)
		}
	})
}
