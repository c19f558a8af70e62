package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrompt_Defaults(t *testing.T) {
	p := NewPrompt("title", "body", nil, true)

	require.Len(t, p.ID, 32, "uuid with dashes stripped")
	assert.NotContains(t, p.ID, "-")
	assert.Equal(t, "title", p.Title)
	assert.Equal(t, "body", p.Body)
	assert.NotNil(t, p.Tags)
	assert.Empty(t, p.Tags)
	assert.True(t, p.Favorite)
	assert.Equal(t, int64(0), p.UsageCount)
	assert.Nil(t, p.LastUsedAt)
	assert.False(t, p.Deleted)
	assert.GreaterOrEqual(t, p.UpdatedAt, p.CreatedAt)
}

func TestNewPrompt_UniqueIDs(t *testing.T) {
	a := NewPrompt("a", "", nil, false)
	b := NewPrompt("b", "", nil, false)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPropertyMap_Defaults(t *testing.T) {
	var m PropertyMap
	assert.Equal(t, "Name", m.TitleProperty())
	assert.Equal(t, "Body", m.BodyProperty())
	assert.Equal(t, "Tags", m.TagsProperty())
	assert.Equal(t, "Favorite", m.FavoriteProperty())
}

func TestPropertyMap_Overrides(t *testing.T) {
	m := PropertyMap{Title: "Prompt", Tags: "Labels"}
	assert.Equal(t, "Prompt", m.TitleProperty())
	assert.Equal(t, "Body", m.BodyProperty())
	assert.Equal(t, "Labels", m.TagsProperty())
	assert.Equal(t, "Favorite", m.FavoriteProperty())
}
