package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/okriashvili/draftdeck/internal/application/handlers"
	"github.com/okriashvili/draftdeck/internal/domain/ports"
	"github.com/okriashvili/draftdeck/internal/domain/services"
	"github.com/okriashvili/draftdeck/internal/infrastructure/config"
	"github.com/okriashvili/draftdeck/internal/infrastructure/draftstore/sqlite"
	embedder "github.com/okriashvili/draftdeck/internal/infrastructure/embedder/openai"
	imagegen "github.com/okriashvili/draftdeck/internal/infrastructure/imagegen/openai"
	"github.com/okriashvili/draftdeck/internal/infrastructure/notify/telegram"
	textgen "github.com/okriashvili/draftdeck/internal/infrastructure/textgen/openai"
	"github.com/okriashvili/draftdeck/internal/infrastructure/vectordb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	DraftHandler   *handlers.DraftHandler
	ReviewHandler  *handlers.ReviewHandler
	SimilarHandler *handlers.SimilarHandler
}

// internalDeps holds all dependencies including low-level components.
// Used internally by helper functions.
type internalDeps struct {
	Deps
	store      *sqlite.Repository
	index      *qdrant.Repository
	gateway    *services.Gateway
	similarity *services.SimilarityService
	log        *logrus.Logger
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(fn func(*Deps) error) error {
	return withInternalDeps(func(d *internalDeps) error {
		return fn(&d.Deps)
	})
}

// withInternalDeps provides access to all dependencies including low-level
// components. Used by commands that need direct service access.
func withInternalDeps(fn func(*internalDeps) error) error {
	cfg, err := config.Load(globalConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	store, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	textClient, err := textgen.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating text generation client: %w", err)
	}

	imageClient, err := imagegen.NewClient(cfg.Image)
	if err != nil {
		return fmt.Errorf("creating image generation client: %w", err)
	}

	orch := services.NewOrchestrator(textClient, imageClient, services.DefaultRetryPolicy())

	// Notifications are optional: no bot token means no review chat.
	var notifier ports.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tg, err := telegram.NewNotifier(cfg.Telegram)
		if err != nil {
			return fmt.Errorf("creating telegram notifier: %w", err)
		}
		notifier = tg
	}

	index, err := qdrant.NewRepository(cfg.Qdrant)
	if err != nil {
		return fmt.Errorf("creating qdrant repository: %w", err)
	}
	defer index.Close()

	emb, err := embedder.NewEmbedder(cfg.Embedder)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	similarity := services.NewSimilarityService(emb, index)
	gateway := services.NewGateway(store, orch, notifier, similarity, log)

	deps := &internalDeps{
		Deps: Deps{
			Config:         cfg,
			DraftHandler:   handlers.NewDraftHandler(gateway),
			ReviewHandler:  handlers.NewReviewHandler(gateway),
			SimilarHandler: handlers.NewSimilarHandler(similarity),
		},
		store:      store,
		index:      index,
		gateway:    gateway,
		similarity: similarity,
		log:        log,
	}

	return fn(deps)
}

// withDraftHandler provides access to the DraftHandler only.
func withDraftHandler(fn func(*handlers.DraftHandler) error) error {
	return withDeps(func(d *Deps) error {
		return fn(d.DraftHandler)
	})
}

// withReviewHandler provides access to the ReviewHandler only.
func withReviewHandler(fn func(*handlers.ReviewHandler) error) error {
	return withDeps(func(d *Deps) error {
		return fn(d.ReviewHandler)
	})
}

// ensureSimilarityIndex creates the vector collection if needed.
func ensureSimilarityIndex(ctx context.Context, d *internalDeps) error {
	if err := d.index.EnsureCollection(ctx, embedder.VectorSize); err != nil {
		return fmt.Errorf("ensuring qdrant collection: %w", err)
	}
	return nil
}
