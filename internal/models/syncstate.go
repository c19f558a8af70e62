package models

// SyncState is the watermark persisted after every successful sync run and
// read at the start of the next one. It is stored wholesale as one JSON
// value in the metadata table; absence means the next pull is a full pull.
//
// RemoteToken is an opaque credential and must never be logged.
type SyncState struct {
	RemoteDatabaseID   string `json:"remoteDatabaseId"`
	RemoteToken        string `json:"remoteToken"`
	LastSyncAt         int64  `json:"lastSyncAt"`
	LastSyncEditedTime string `json:"lastSyncEditedTime"`
}

// PropertyMap maps the four logical prompt fields to property names in the
// remote Notion schema. Zero values fall back to the defaults.
type PropertyMap struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Tags     string `json:"tags"`
	Favorite string `json:"favorite"`
}

// Default property names used when a logical field is unmapped.
const (
	DefaultTitleProperty    = "Name"
	DefaultBodyProperty     = "Body"
	DefaultTagsProperty     = "Tags"
	DefaultFavoriteProperty = "Favorite"
)

// TitleProperty returns the mapped title property name or its default.
func (m PropertyMap) TitleProperty() string {
	if m.Title != "" {
		return m.Title
	}
	return DefaultTitleProperty
}

// BodyProperty returns the mapped body property name or its default.
func (m PropertyMap) BodyProperty() string {
	if m.Body != "" {
		return m.Body
	}
	return DefaultBodyProperty
}

// TagsProperty returns the mapped tags property name or its default.
func (m PropertyMap) TagsProperty() string {
	if m.Tags != "" {
		return m.Tags
	}
	return DefaultTagsProperty
}

// FavoriteProperty returns the mapped favorite property name or its default.
func (m PropertyMap) FavoriteProperty() string {
	if m.Favorite != "" {
		return m.Favorite
	}
	return DefaultFavoriteProperty
}
