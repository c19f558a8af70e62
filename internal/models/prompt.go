// Package models defines the prompt record and sync bookkeeping types.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prompt is one stored text snippet. Timestamps are epoch milliseconds.
//
// Invariants: UpdatedAt >= CreatedAt; ID is unique within the store; a
// soft-deleted prompt stays retrievable by id but is excluded from default
// listings.
type Prompt struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Tags       []string `json:"tags"`
	Favorite   bool     `json:"favorite"`
	CreatedAt  int64    `json:"createdAt"`
	UpdatedAt  int64    `json:"updatedAt"`
	UsageCount int64    `json:"usageCount"`
	LastUsedAt *int64   `json:"lastUsedAt,omitempty"`
	Deleted    bool     `json:"deleted"`
}

// NewPrompt builds a locally-created prompt. The id is a UUID with dashes
// stripped, the same canonical form page-derived ids use.
func NewPrompt(title, body string, tags []string, favorite bool) *Prompt {
	now := NowMillis()
	if tags == nil {
		tags = []string{}
	}
	return &Prompt{
		ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		Title:     title,
		Body:      body,
		Tags:      tags,
		Favorite:  favorite,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NowMillis returns the current wall-clock time in epoch milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// ListOptions controls List queries.
type ListOptions struct {
	// Limit caps the number of returned rows; <= 0 means the default of 50.
	Limit int
	// IncludeDeleted also returns soft-deleted prompts.
	IncludeDeleted bool
}

// DefaultListLimit is applied when ListOptions.Limit is unset.
const DefaultListLimit = 50
