// Package sqlite provides a SQLite implementation of the DraftStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.DraftStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Drafts (one row per proposed post)
	CREATE TABLE IF NOT EXISTS drafts (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		image_ref TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		external_ref TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		published_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_drafts_status ON drafts(status);
	CREATE INDEX IF NOT EXISTS idx_drafts_created ON drafts(created_at);

	-- Edit history (append-only text snapshots)
	CREATE TABLE IF NOT EXISTS edit_history (
		id TEXT PRIMARY KEY,
		draft_id TEXT NOT NULL REFERENCES drafts(id),
		previous_text TEXT NOT NULL,
		new_text TEXT NOT NULL,
		source TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_edit_history_draft ON edit_history(draft_id);
	CREATE INDEX IF NOT EXISTS idx_edit_history_created ON edit_history(draft_id, created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// CreateDraft inserts a new empty draft in status "draft".
func (r *Repository) CreateDraft(ctx context.Context, subject string) (*entities.Draft, error) {
	now := timeNow().UTC()
	draft := &entities.Draft{
		ID:        generateUUID(),
		Subject:   subject,
		Status:    entities.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO drafts (id, subject, text, image_ref, status, external_ref, created_at, updated_at)
		VALUES (?, ?, '', '', ?, '', ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		draft.ID,
		draft.Subject,
		string(draft.Status),
		draft.CreatedAt,
		draft.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting draft: %w", err)
	}
	return draft, nil
}

// GetDraft returns the draft with the given id, or NotFoundError.
func (r *Repository) GetDraft(ctx context.Context, id string) (*entities.Draft, error) {
	query := draftSelect + ` WHERE id = ?`
	return r.scanDraftRow(r.db.QueryRowContext(ctx, query, id), id)
}

// LatestDraft returns the most recently created draft.
func (r *Repository) LatestDraft(ctx context.Context) (*entities.Draft, error) {
	query := draftSelect + ` ORDER BY created_at DESC, id DESC LIMIT 1`
	return r.scanDraftRow(r.db.QueryRowContext(ctx, query), "latest")
}

// ListDrafts returns drafts ordered by creation time descending. An empty
// status means no filter.
func (r *Repository) ListDrafts(ctx context.Context, status entities.Status) ([]*entities.Draft, error) {
	query := draftSelect
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Draft, 0, 16)
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, draft)
	}
	return result, rows.Err()
}

// ApplyTextEdit replaces the draft's text and appends a history entry in a
// single transaction. The lifecycle table is checked against the status read
// inside the transaction.
func (r *Repository) ApplyTextEdit(ctx context.Context, id, newText string, source entities.EditSource) (*entities.Draft, error) {
	var out *entities.Draft
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		draft, err := r.getDraftTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := entities.Transition(draft.Status, entities.EventEditText); err != nil {
			return err
		}

		now := timeNow().UTC()
		entry := `
			INSERT INTO edit_history (id, draft_id, previous_text, new_text, source, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`
		if _, err := tx.ExecContext(ctx, entry,
			generateUUID(), id, draft.Text, newText, string(source), now,
		); err != nil {
			return fmt.Errorf("appending history entry: %w", err)
		}

		update := `UPDATE drafts SET text = ?, updated_at = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, update, newText, now, id); err != nil {
			return fmt.Errorf("updating draft text: %w", err)
		}

		draft.Text = newText
		draft.UpdatedAt = now
		out = draft
		return nil
	})
	return out, err
}

// ApplyImageUpdate replaces the draft's image reference. Image changes are
// not recorded in the edit history.
func (r *Repository) ApplyImageUpdate(ctx context.Context, id, imageRef string) (*entities.Draft, error) {
	var out *entities.Draft
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		draft, err := r.getDraftTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := entities.Transition(draft.Status, entities.EventRegenerateImage); err != nil {
			return err
		}

		now := timeNow().UTC()
		update := `UPDATE drafts SET image_ref = ?, updated_at = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, update, imageRef, now, id); err != nil {
			return fmt.Errorf("updating draft image: %w", err)
		}

		draft.ImageRef = imageRef
		draft.UpdatedAt = now
		out = draft
		return nil
	})
	return out, err
}

// TransitionStatus applies a lifecycle event inside a transaction, so the
// status check and the update cannot interleave with another writer.
func (r *Repository) TransitionStatus(ctx context.Context, id string, event entities.Event) (*entities.Draft, error) {
	var out *entities.Draft
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		draft, err := r.getDraftTx(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err := entities.Transition(draft.Status, event)
		if err != nil {
			return err
		}

		now := timeNow().UTC()
		if next == entities.StatusPublished {
			update := `UPDATE drafts SET status = ?, updated_at = ?, published_at = ? WHERE id = ?`
			if _, err := tx.ExecContext(ctx, update, string(next), now, now, id); err != nil {
				return fmt.Errorf("updating draft status: %w", err)
			}
			draft.PublishedAt = &now
		} else {
			update := `UPDATE drafts SET status = ?, updated_at = ? WHERE id = ?`
			if _, err := tx.ExecContext(ctx, update, string(next), now, id); err != nil {
				return fmt.Errorf("updating draft status: %w", err)
			}
		}

		draft.Status = next
		draft.UpdatedAt = now
		out = draft
		return nil
	})
	return out, err
}

// SetExternalRef records the chat message currently displaying the draft.
func (r *Repository) SetExternalRef(ctx context.Context, id, ref string) error {
	query := `UPDATE drafts SET external_ref = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, ref, id)
	if err != nil {
		return fmt.Errorf("updating external ref: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &entities.NotFoundError{DraftID: id}
	}
	return nil
}

// GetHistory returns the draft's edit history, oldest first.
func (r *Repository) GetHistory(ctx context.Context, id string) ([]entities.EditHistoryEntry, error) {
	if _, err := r.GetDraft(ctx, id); err != nil {
		return nil, err
	}

	query := `
		SELECT id, draft_id, previous_text, new_text, source, created_at
		FROM edit_history
		WHERE draft_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying edit history: %w", err)
	}
	defer rows.Close()

	entries := make([]entities.EditHistoryEntry, 0, 16)
	for rows.Next() {
		var entry entities.EditHistoryEntry
		var source string
		if err := rows.Scan(
			&entry.ID,
			&entry.DraftID,
			&entry.PreviousText,
			&entry.NewText,
			&source,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		entry.Source = entities.EditSource(source)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// DeleteDraft removes a draft and its history. History rows go first to
// satisfy the foreign key.
func (r *Repository) DeleteDraft(ctx context.Context, id string) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM edit_history WHERE draft_id = ?`, id); err != nil {
			return fmt.Errorf("deleting edit history: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting draft: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return &entities.NotFoundError{DraftID: id}
		}
		return nil
	})
}

// inTx runs fn inside a transaction, committing on success.
func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const draftSelect = `
	SELECT id, subject, text, image_ref, status, external_ref, created_at, updated_at, published_at
	FROM drafts`

// getDraftTx reads a draft inside a transaction.
func (r *Repository) getDraftTx(ctx context.Context, tx *sql.Tx, id string) (*entities.Draft, error) {
	query := draftSelect + ` WHERE id = ?`
	return r.scanDraftRow(tx.QueryRowContext(ctx, query, id), id)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanDraftRow(row *sql.Row, id string) (*entities.Draft, error) {
	draft, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &entities.NotFoundError{DraftID: id}
	}
	return draft, err
}

func scanDraft(row rowScanner) (*entities.Draft, error) {
	var draft entities.Draft
	var status string
	var publishedAt sql.NullTime

	err := row.Scan(
		&draft.ID,
		&draft.Subject,
		&draft.Text,
		&draft.ImageRef,
		&status,
		&draft.ExternalRef,
		&draft.CreatedAt,
		&draft.UpdatedAt,
		&publishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning draft: %w", err)
	}

	draft.Status = entities.Status(status)
	if publishedAt.Valid {
		at := publishedAt.Time
		draft.PublishedAt = &at
	}
	return &draft, nil
}
