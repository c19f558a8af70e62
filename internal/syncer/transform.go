// Package syncer implements the one-way Notion-to-local sync: a pure page
// transformer, a last-write-wins merge engine, and the orchestrator that
// owns the paginated pull loop and the persisted watermark.
package syncer

import (
	"fmt"
	"strings"
	"time"

	"github.com/promptkeeper/promptkeeper/internal/models"
	"github.com/promptkeeper/promptkeeper/internal/notion"
)

// UntitledFallback is used when the mapped title property is absent or empty.
const UntitledFallback = "Untitled"

// LocalID derives the local prompt id from a remote page id by stripping the
// dash separators. Deterministic, and collision-free for distinct page ids.
func LocalID(pageID string) string {
	return strings.ReplaceAll(pageID, "-", "")
}

func parseMillis(ts string) (int64, error) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return 0, err
	}
	return t.UnixMilli(), nil
}

// PageToPrompt maps one remote page into a local prompt snapshot using the
// given property mapping. It is pure: no store access, no clock.
//
// An error means "skip this page": the merge loop drops the record and
// continues, it never aborts the batch.
func PageToPrompt(page notion.Page, pm models.PropertyMap) (*models.Prompt, error) {
	if page.ID == "" {
		return nil, fmt.Errorf("page has no id")
	}

	createdAt, err := parseMillis(page.CreatedTime)
	if err != nil {
		return nil, fmt.Errorf("parsing created_time %q: %w", page.CreatedTime, err)
	}
	updatedAt, err := parseMillis(page.LastEditedTime)
	if err != nil {
		return nil, fmt.Errorf("parsing last_edited_time %q: %w", page.LastEditedTime, err)
	}

	title := UntitledFallback
	if runs := page.Properties[pm.TitleProperty()].Title; len(runs) > 0 {
		if s := runs[0].Content(); s != "" {
			title = s
		}
	}

	var body strings.Builder
	for _, run := range page.Properties[pm.BodyProperty()].RichText {
		body.WriteString(run.Content())
	}

	tags := []string{}
	for _, opt := range page.Properties[pm.TagsProperty()].MultiSelect {
		tags = append(tags, opt.Name)
	}

	favorite := false
	if cb := page.Properties[pm.FavoriteProperty()].Checkbox; cb != nil {
		favorite = *cb
	}

	return &models.Prompt{
		ID:        LocalID(page.ID),
		Title:     title,
		Body:      body.String(),
		Tags:      tags,
		Favorite:  favorite,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
