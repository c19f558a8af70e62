// Package notion is a thin client for the Notion HTTP API: database queries
// with filter/sort/cursor and single-page CRUD. It knows nothing about
// prompts, only pages and their typed properties.
package notion

// RichText is one text run of a title or rich_text property.
type RichText struct {
	PlainText string       `json:"plain_text,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
}

// TextContent carries the raw content of a text run.
type TextContent struct {
	Content string `json:"content"`
}

// Content returns the run's text, preferring plain_text over text.content.
func (r RichText) Content() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	if r.Text != nil {
		return r.Text.Content
	}
	return ""
}

// SelectOption is one option of a multi_select property.
type SelectOption struct {
	Name string `json:"name"`
}

// Property is the typed value union of a page property. Exactly one of the
// value fields is populated, according to Type.
type Property struct {
	Type        string         `json:"type,omitempty"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
}

// Page is one unit of a paginated query result.
type Page struct {
	ID             string              `json:"id"`
	CreatedTime    string              `json:"created_time"`
	LastEditedTime string              `json:"last_edited_time"`
	Archived       bool                `json:"archived,omitempty"`
	Properties     map[string]Property `json:"properties"`
}

// DateCondition is the date predicate of a query filter.
type DateCondition struct {
	After string `json:"after,omitempty"`
}

// Filter is the query predicate sent with a database query.
type Filter struct {
	Property string         `json:"property"`
	Date     *DateCondition `json:"date,omitempty"`
}

// EditedAfter builds the incremental filter used by the sync pull loop.
func EditedAfter(ts string) *Filter {
	return &Filter{Property: "last_edited_time", Date: &DateCondition{After: ts}}
}

// Sort is one (property, direction) pair of a query sort.
type Sort struct {
	Property  string `json:"property"`
	Direction string `json:"direction"`
}

const (
	DirectionAscending  = "ascending"
	DirectionDescending = "descending"
)

// QueryResult is one page of database query results. NextCursor is empty on
// the last page.
type QueryResult struct {
	Results    []Page `json:"results"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}
