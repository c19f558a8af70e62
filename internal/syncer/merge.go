package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/promptkeeper/promptkeeper/internal/common"
	"github.com/promptkeeper/promptkeeper/internal/logging"
	"github.com/promptkeeper/promptkeeper/internal/models"
	"github.com/promptkeeper/promptkeeper/internal/notion"
)

// PromptStore is the narrow slice of the local store the merge engine needs.
type PromptStore interface {
	GetByID(ctx context.Context, id string) (*models.Prompt, error)
	Create(ctx context.Context, p *models.Prompt) error
	Update(ctx context.Context, p *models.Prompt) error
}

// Merger reconciles batches of remote pages with the local store using a
// last-write-wins policy keyed on the remote edit time.
type Merger struct {
	store PromptStore
	log   logging.Logger
}

func NewMerger(store PromptStore, log logging.Logger) *Merger {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Merger{store: store, log: log}
}

// MergeBatch merges pages in input order and returns how many records were
// created or overwritten. A page that fails to transform is logged and
// skipped; a store failure is fatal and returns the count of merges already
// applied (they are kept, there is no rollback).
//
// The policy is deliberately simple: a transformed record strictly newer than
// the stored one replaces it wholesale, identity excepted. Equal or older
// timestamps are a no-op. Re-merging the same batch is therefore idempotent.
func (m *Merger) MergeBatch(ctx context.Context, pages []notion.Page, pm models.PropertyMap) (int, error) {
	merged := 0

	for _, page := range pages {
		incoming, err := PageToPrompt(page, pm)
		if err != nil {
			m.log.Warn(ctx, "skipping malformed page", "page_id", page.ID, "error", err)
			continue
		}

		existing, err := m.store.GetByID(ctx, incoming.ID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			if err := m.store.Create(ctx, incoming); err != nil {
				return merged, fmt.Errorf("creating prompt %s: %w", incoming.ID, err)
			}
			merged++

		case err != nil:
			return merged, fmt.Errorf("looking up prompt %s: %w", incoming.ID, err)

		case incoming.UpdatedAt > existing.UpdatedAt:
			if err := m.store.Update(ctx, incoming); err != nil {
				return merged, fmt.Errorf("updating prompt %s: %w", incoming.ID, err)
			}
			merged++
		}
	}

	return merged, nil
}
