package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/promptkeeper/promptkeeper/internal/common"
	"github.com/promptkeeper/promptkeeper/internal/models"
	"github.com/promptkeeper/promptkeeper/internal/notion"
	"github.com/promptkeeper/promptkeeper/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryCall struct {
	databaseID string
	filter     *notion.Filter
	sorts      []notion.Sort
	cursor     string
}

// fakeClient replays scripted query results and records every call.
type fakeClient struct {
	token     string
	calls     []queryCall
	responses []*notion.QueryResult
	errs      []error
	block     chan struct{} // when set, QueryDatabase waits before answering
}

func (c *fakeClient) SetToken(token string) { c.token = token }

func (c *fakeClient) QueryDatabase(ctx context.Context, databaseID string, filter *notion.Filter, sorts []notion.Sort, startCursor string) (*notion.QueryResult, error) {
	if c.block != nil {
		<-c.block
	}
	i := len(c.calls)
	c.calls = append(c.calls, queryCall{databaseID: databaseID, filter: filter, sorts: sorts, cursor: startCursor})

	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return &notion.QueryResult{}, nil
}

type fakeMeta struct {
	values map[string][]byte
}

func newFakeMeta() *fakeMeta { return &fakeMeta{values: make(map[string][]byte)} }

func (m *fakeMeta) Get(_ context.Context, key string) ([]byte, error) {
	return m.values[key], nil
}

func (m *fakeMeta) Set(_ context.Context, key string, value []byte) error {
	m.values[key] = value
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testClock = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRunner(client *fakeClient, ps PromptStore, meta MetaStore) *Runner {
	return NewRunner(client, NewMerger(ps, nil), meta,
		WithPageInterval(time.Millisecond),
		WithClock(fixedClock(testClock)))
}

func creds() Credentials {
	return Credentials{DatabaseID: "db123", Token: "secret"}
}

func TestRun_ConfigIncomplete(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"missing token", Credentials{DatabaseID: "db123"}},
		{"missing database", Credentials{Token: "secret"}},
		{"missing both", Credentials{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{}
			r := newTestRunner(client, newFakeStore(), newFakeMeta())

			_, err := r.Run(context.Background(), tc.creds, models.PropertyMap{})
			require.ErrorIs(t, err, common.ErrConfigIncomplete)
			assert.Empty(t, client.calls, "no network call attempted")
		})
	}
}

func TestRun_EndToEnd_FullPull(t *testing.T) {
	ctx := context.Background()
	repos, err := store.InitDatabase(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer repos.Close()

	client := &fakeClient{
		responses: []*notion.QueryResult{{
			Results: []notion.Page{
				makePage("a-1", 1000, "first"),
				makePage("b-2", 2000, "second"),
			},
		}},
	}
	r := newTestRunner(client, repos.Prompts, repos.Metadata)

	summary, err := r.Run(ctx, creds(), models.PropertyMap{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Merged)

	assert.Equal(t, "secret", client.token)
	require.Len(t, client.calls, 1)
	assert.Nil(t, client.calls[0].filter, "no watermark means full pull")
	assert.Equal(t, []notion.Sort{{Property: "last_edited_time", Direction: notion.DirectionDescending}}, client.calls[0].sorts)

	p1, err := repos.Prompts.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "first", p1.Title)
	_, err = repos.Prompts.GetByID(ctx, "b2")
	require.NoError(t, err)

	raw, err := repos.Metadata.Get(ctx, SyncStateKey)
	require.NoError(t, err)
	var state models.SyncState
	require.NoError(t, json.Unmarshal(raw, &state))
	assert.Equal(t, "db123", state.RemoteDatabaseID)
	assert.Equal(t, "secret", state.RemoteToken)
	assert.Equal(t, testClock.UnixMilli(), state.LastSyncAt)
	assert.Equal(t, testClock.Format(time.RFC3339), state.LastSyncEditedTime)
}

func TestRun_SecondRunIsIncremental(t *testing.T) {
	meta := newFakeMeta()
	prev := models.SyncState{
		RemoteDatabaseID:   "db123",
		RemoteToken:        "secret",
		LastSyncAt:         1,
		LastSyncEditedTime: "2024-05-31T00:00:00Z",
	}
	raw, err := json.Marshal(prev)
	require.NoError(t, err)
	require.NoError(t, meta.Set(context.Background(), SyncStateKey, raw))

	client := &fakeClient{responses: []*notion.QueryResult{{}}}
	r := newTestRunner(client, newFakeStore(), meta)

	summary, err := r.Run(context.Background(), creds(), models.PropertyMap{})
	require.NoError(t, err)
	assert.Zero(t, summary.Merged, "no new remote pages")

	require.Len(t, client.calls, 1)
	require.NotNil(t, client.calls[0].filter)
	assert.Equal(t, "last_edited_time", client.calls[0].filter.Property)
	require.NotNil(t, client.calls[0].filter.Date)
	assert.Equal(t, "2024-05-31T00:00:00Z", client.calls[0].filter.Date.After)
}

func TestRun_PaginationFollowsCursor(t *testing.T) {
	client := &fakeClient{
		responses: []*notion.QueryResult{
			{Results: []notion.Page{makePage("a-1", 1000, "first")}, HasMore: true, NextCursor: "cur1"},
			{Results: []notion.Page{makePage("b-2", 2000, "second")}, HasMore: false},
		},
	}
	r := newTestRunner(client, newFakeStore(), newFakeMeta())

	summary, err := r.Run(context.Background(), creds(), models.PropertyMap{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Merged)

	require.Len(t, client.calls, 2, "exactly two queries issued")
	assert.Empty(t, client.calls[0].cursor)
	assert.Equal(t, "cur1", client.calls[1].cursor, "second call resumes from the first call's cursor")
}

func TestRun_FailureKeepsPartialMergesAndWatermark(t *testing.T) {
	meta := newFakeMeta()
	prevRaw, err := json.Marshal(models.SyncState{LastSyncEditedTime: "2024-05-31T00:00:00Z"})
	require.NoError(t, err)
	require.NoError(t, meta.Set(context.Background(), SyncStateKey, prevRaw))

	ps := newFakeStore()
	client := &fakeClient{
		responses: []*notion.QueryResult{
			{Results: []notion.Page{
				makePage("a-1", 1000, "first"),
				makePage("b-2", 2000, "second"),
			}, HasMore: true, NextCursor: "cur1"},
		},
		errs: []error{nil, fmt.Errorf("throttled: %w", common.ErrRateLimited)},
	}
	r := newTestRunner(client, ps, meta)

	_, err = r.Run(context.Background(), creds(), models.PropertyMap{})
	require.ErrorIs(t, err, common.ErrRateLimited, "failure reported, not success")

	assert.Equal(t, 2, ps.creates, "records merged before the failure stay persisted")
	assert.Equal(t, prevRaw, meta.values[SyncStateKey], "sync state untouched on failure")
}

func TestRun_AuthErrorAborts(t *testing.T) {
	client := &fakeClient{errs: []error{fmt.Errorf("401: %w", common.ErrUnauthorized)}}
	meta := newFakeMeta()
	r := newTestRunner(client, newFakeStore(), meta)

	_, err := r.Run(context.Background(), creds(), models.PropertyMap{})
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Nil(t, meta.values[SyncStateKey], "no watermark committed")
}

func TestRun_SerializesConcurrentRuns(t *testing.T) {
	block := make(chan struct{})
	client := &fakeClient{
		block:     block,
		responses: []*notion.QueryResult{{}},
	}
	r := newTestRunner(client, newFakeStore(), newFakeMeta())

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background(), creds(), models.PropertyMap{})
		done <- err
	}()

	// Wait for the first run to take the in-flight flag.
	require.Eventually(t, func() bool {
		return r.running.Load()
	}, time.Second, time.Millisecond)

	_, err := r.Run(context.Background(), creds(), models.PropertyMap{})
	require.ErrorIs(t, err, common.ErrSyncInProgress)

	close(block)
	require.NoError(t, <-done)

	// The flag is released; a fresh run is accepted again.
	client.block = nil
	_, err = r.Run(context.Background(), creds(), models.PropertyMap{})
	require.NoError(t, err)
}
