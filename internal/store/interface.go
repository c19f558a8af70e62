// Package store persists prompts and sync bookkeeping in a local SQLite
// database. It is the single source of truth for prompt records; every
// successful mutation is announced through a best-effort change broadcast.
package store

import (
	"context"

	"github.com/promptkeeper/promptkeeper/internal/models"
)

// PromptRepository describes CRUD and query operations for prompts.
type PromptRepository interface {
	// Create inserts a new prompt. Fails with common.ErrAlreadyExists when
	// the id is taken.
	Create(ctx context.Context, p *models.Prompt) error

	// Update replaces the whole row identified by p.ID. Fails with
	// common.ErrNotFound when absent.
	Update(ctx context.Context, p *models.Prompt) error

	// GetByID returns a prompt by id, including soft-deleted ones. Fails
	// with common.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.Prompt, error)

	// List returns prompts ordered favorites-first, then most recently
	// updated. Soft-deleted rows are excluded unless opts.IncludeDeleted.
	List(ctx context.Context, opts models.ListOptions) ([]models.Prompt, error)

	// Search returns non-deleted prompts whose title, body or tags contain
	// the query, case-insensitively.
	Search(ctx context.Context, query string, limit int) ([]models.Prompt, error)

	// SoftDelete marks a prompt deleted and bumps its updated_at.
	SoftDelete(ctx context.Context, id string) error

	// TouchUsage increments the usage counter and stamps last_used_at.
	TouchUsage(ctx context.Context, id string) error
}

// MetadataRepository is a small key/value store for bookkeeping values such
// as the persisted sync state.
type MetadataRepository interface {
	// Get returns the value for key, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
