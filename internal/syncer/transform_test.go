package syncer

import (
	"testing"

	"github.com/promptkeeper/promptkeeper/internal/models"
	"github.com/promptkeeper/promptkeeper/internal/notion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func fullPage() notion.Page {
	return notion.Page{
		ID:             "a1b2-c3d4",
		CreatedTime:    "1970-01-01T00:00:01.000Z",
		LastEditedTime: "1970-01-01T00:00:02.000Z",
		Properties: map[string]notion.Property{
			"Name": {Type: "title", Title: []notion.RichText{{PlainText: "Greeting"}}},
			"Body": {Type: "rich_text", RichText: []notion.RichText{
				{PlainText: "Hello, "},
				{Text: &notion.TextContent{Content: "world"}},
			}},
			"Tags": {Type: "multi_select", MultiSelect: []notion.SelectOption{
				{Name: "daily"}, {Name: "work"},
			}},
			"Favorite": {Type: "checkbox", Checkbox: boolPtr(true)},
		},
	}
}

func TestPageToPrompt_FullPage(t *testing.T) {
	p, err := PageToPrompt(fullPage(), models.PropertyMap{})
	require.NoError(t, err)

	assert.Equal(t, "a1b2c3d4", p.ID, "dashes stripped from page id")
	assert.Equal(t, "Greeting", p.Title)
	assert.Equal(t, "Hello, world", p.Body, "all rich-text runs concatenated")
	assert.Equal(t, []string{"daily", "work"}, p.Tags)
	assert.True(t, p.Favorite)
	assert.Equal(t, int64(1000), p.CreatedAt)
	assert.Equal(t, int64(2000), p.UpdatedAt)
	assert.Equal(t, int64(0), p.UsageCount)
	assert.False(t, p.Deleted)
}

func TestPageToPrompt_MissingProperties(t *testing.T) {
	page := notion.Page{
		ID:             "a-1",
		CreatedTime:    "1970-01-01T00:00:01Z",
		LastEditedTime: "1970-01-01T00:00:02Z",
		Properties:     map[string]notion.Property{},
	}

	p, err := PageToPrompt(page, models.PropertyMap{})
	require.NoError(t, err)

	assert.Equal(t, UntitledFallback, p.Title)
	assert.Equal(t, "", p.Body)
	assert.Equal(t, []string{}, p.Tags)
	assert.False(t, p.Favorite)
}

func TestPageToPrompt_EmptyTitleRun(t *testing.T) {
	page := fullPage()
	page.Properties["Name"] = notion.Property{Type: "title", Title: []notion.RichText{{}}}

	p, err := PageToPrompt(page, models.PropertyMap{})
	require.NoError(t, err)
	assert.Equal(t, UntitledFallback, p.Title)
}

func TestPageToPrompt_CustomPropertyMap(t *testing.T) {
	page := notion.Page{
		ID:             "a-1",
		CreatedTime:    "1970-01-01T00:00:01Z",
		LastEditedTime: "1970-01-01T00:00:02Z",
		Properties: map[string]notion.Property{
			"Prompt": {Type: "title", Title: []notion.RichText{{PlainText: "Custom"}}},
			"Text":   {Type: "rich_text", RichText: []notion.RichText{{PlainText: "b"}}},
		},
	}

	pm := models.PropertyMap{Title: "Prompt", Body: "Text"}
	p, err := PageToPrompt(page, pm)
	require.NoError(t, err)
	assert.Equal(t, "Custom", p.Title)
	assert.Equal(t, "b", p.Body)
}

func TestPageToPrompt_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*notion.Page)
	}{
		{"empty id", func(p *notion.Page) { p.ID = "" }},
		{"bad created_time", func(p *notion.Page) { p.CreatedTime = "yesterday" }},
		{"bad last_edited_time", func(p *notion.Page) { p.LastEditedTime = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page := fullPage()
			tc.mutate(&page)
			_, err := PageToPrompt(page, models.PropertyMap{})
			require.Error(t, err)
		})
	}
}

func TestLocalID_Deterministic(t *testing.T) {
	assert.Equal(t, "a1", LocalID("a-1"))
	assert.Equal(t, "a1", LocalID("a-1"))
	assert.NotEqual(t, LocalID("a-12"), LocalID("a-21"))
}
