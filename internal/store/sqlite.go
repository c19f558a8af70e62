package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/promptkeeper/promptkeeper/internal/common"
	"github.com/promptkeeper/promptkeeper/internal/dbx"
	"github.com/promptkeeper/promptkeeper/internal/models"
	"github.com/promptkeeper/promptkeeper/internal/notify"
)

const promptColumns = `id, title, body, tags, favorite, created_at, updated_at, usage_count, last_used_at, deleted`

// SQLitePromptRepository implements PromptRepository over a local SQLite
// database. All statements touch a single row; the store's per-row atomicity
// is the concurrency contract relied on by the merge engine.
type SQLitePromptRepository struct {
	db     *sql.DB
	events *notify.Broadcaster
}

// NewSQLitePromptRepository returns a repository bound to db. Mutations are
// announced on events; pass nil to disable notifications.
func NewSQLitePromptRepository(db *sql.DB, events *notify.Broadcaster) *SQLitePromptRepository {
	return &SQLitePromptRepository{db: db, events: events}
}

func (r *SQLitePromptRepository) publish(t notify.EventType, id string) {
	if r.events != nil {
		r.events.Publish(notify.Event{Type: t, ID: id})
	}
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(raw), nil
}

func scanPrompt(row interface{ Scan(...any) error }) (*models.Prompt, error) {
	var p models.Prompt
	var tags string
	var favorite, deleted int
	var lastUsedAt sql.NullInt64

	err := row.Scan(&p.ID, &p.Title, &p.Body, &tags, &favorite,
		&p.CreatedAt, &p.UpdatedAt, &p.UsageCount, &lastUsedAt, &deleted)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	p.Favorite = favorite != 0
	p.Deleted = deleted != 0
	if lastUsedAt.Valid {
		v := lastUsedAt.Int64
		p.LastUsedAt = &v
	}
	return &p, nil
}

// Create inserts p. A single conditional INSERT detects id collisions
// without relying on driver-specific constraint errors.
func (r *SQLitePromptRepository) Create(ctx context.Context, p *models.Prompt) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO prompts (` + promptColumns + `)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM prompts WHERE id = ?)`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.Body, tags, p.Favorite,
		p.CreatedAt, p.UpdatedAt, p.UsageCount, p.LastUsedAt, p.Deleted,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert prompt: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("prompt %s: %w", p.ID, common.ErrAlreadyExists)
	}

	r.publish(notify.EventCreated, p.ID)
	return nil
}

// Update replaces every column of the row except the id.
func (r *SQLitePromptRepository) Update(ctx context.Context, p *models.Prompt) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	query := `UPDATE prompts
		SET title = ?, body = ?, tags = ?, favorite = ?,
			created_at = ?, updated_at = ?, usage_count = ?, last_used_at = ?, deleted = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Title, p.Body, tags, p.Favorite,
		p.CreatedAt, p.UpdatedAt, p.UsageCount, p.LastUsedAt, p.Deleted,
		p.ID)
	if err != nil {
		return fmt.Errorf("failed to update prompt: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("prompt %s: %w", p.ID, common.ErrNotFound)
	}

	r.publish(notify.EventUpdated, p.ID)
	return nil
}

// GetByID returns the prompt with the given id, soft-deleted included.
func (r *SQLitePromptRepository) GetByID(ctx context.Context, id string) (*models.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE id = ?`
	p, err := scanPrompt(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("prompt %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select prompt: %w", err)
	}
	return p, nil
}

func (r *SQLitePromptRepository) queryPrompts(ctx context.Context, query string, args ...any) ([]models.Prompt, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select prompts: %w", err)
	}
	defer rows.Close()

	var result []models.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// List returns prompts ordered favorites-first, newest-first.
func (r *SQLitePromptRepository) List(ctx context.Context, opts models.ListOptions) ([]models.Prompt, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = models.DefaultListLimit
	}

	query := `SELECT ` + promptColumns + ` FROM prompts`
	if !opts.IncludeDeleted {
		query += ` WHERE deleted = 0`
	}
	query += ` ORDER BY favorite DESC, updated_at DESC LIMIT ?`

	return r.queryPrompts(ctx, query, limit)
}

// Search matches the query as a case-insensitive substring of title, body or
// tags. Soft-deleted prompts are excluded.
func (r *SQLitePromptRepository) Search(ctx context.Context, query string, limit int) ([]models.Prompt, error) {
	if limit <= 0 {
		limit = models.DefaultListLimit
	}
	pattern := "%" + strings.ToLower(query) + "%"

	q := `SELECT ` + promptColumns + ` FROM prompts
		WHERE deleted = 0
		  AND (lower(title) LIKE ? OR lower(body) LIKE ? OR lower(tags) LIKE ?)
		ORDER BY favorite DESC, updated_at DESC LIMIT ?`

	return r.queryPrompts(ctx, q, pattern, pattern, pattern, limit)
}

// SoftDelete marks the prompt deleted; the row stays retrievable by id.
func (r *SQLitePromptRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE prompts SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`
	res, err := r.db.ExecContext(ctx, query, models.NowMillis(), id)
	if err != nil {
		return fmt.Errorf("failed to delete prompt: %w", err)
	}

	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("prompt %s: %w", id, common.ErrNotFound)
	}

	r.publish(notify.EventDeleted, id)
	return nil
}

// TouchUsage applies the read-modify-write for usage tracking inside one
// transaction.
func (r *SQLitePromptRepository) TouchUsage(ctx context.Context, id string) error {
	now := models.NowMillis()

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var count int64
		err := tx.QueryRowContext(ctx, `SELECT usage_count FROM prompts WHERE id = ?`, id).Scan(&count)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("prompt %s: %w", id, common.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to select usage count: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE prompts SET usage_count = ?, last_used_at = ?, updated_at = ? WHERE id = ?`,
			count+1, now, now, id)
		if err != nil {
			return fmt.Errorf("failed to update usage count: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.publish(notify.EventUpdated, id)
	return nil
}
