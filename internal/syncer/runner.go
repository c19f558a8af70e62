package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/promptkeeper/promptkeeper/internal/common"
	"github.com/promptkeeper/promptkeeper/internal/logging"
	"github.com/promptkeeper/promptkeeper/internal/models"
	"github.com/promptkeeper/promptkeeper/internal/notion"
	"golang.org/x/time/rate"
)

// SyncStateKey is the metadata key the persisted watermark lives under.
const SyncStateKey = "syncState"

// DefaultPageInterval paces consecutive page queries of one pull loop.
const DefaultPageInterval = 500 * time.Millisecond

// RemoteClient is the slice of the Notion client the orchestrator uses.
type RemoteClient interface {
	SetToken(token string)
	QueryDatabase(ctx context.Context, databaseID string, filter *notion.Filter, sorts []notion.Sort, startCursor string) (*notion.QueryResult, error)
}

// MetaStore persists the sync state between runs.
type MetaStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Credentials carries what a sync run needs to reach the remote database.
type Credentials struct {
	DatabaseID string
	Token      string
}

// Summary reports a completed run.
type Summary struct {
	Merged int
}

// Runner orchestrates one sync run: it builds the incremental filter from
// the last successful watermark, paginates through the remote database,
// merges each page, and persists a new watermark on success only.
//
// Runs are serialized: a Run started while another is in flight fails with
// common.ErrSyncInProgress.
type Runner struct {
	client  RemoteClient
	merger  *Merger
	meta    MetaStore
	limiter *rate.Limiter
	log     logging.Logger
	now     func() time.Time

	running atomic.Bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(log logging.Logger) RunnerOption {
	return func(r *Runner) { r.log = log }
}

// WithPageInterval sets the minimum spacing between page queries.
func WithPageInterval(d time.Duration) RunnerOption {
	return func(r *Runner) { r.limiter = rate.NewLimiter(rate.Every(d), 1) }
}

// WithClock overrides the wall clock. Used by tests.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

func NewRunner(client RemoteClient, merger *Merger, meta MetaStore, opts ...RunnerOption) *Runner {
	r := &Runner{
		client:  client,
		merger:  merger,
		meta:    meta,
		limiter: rate.NewLimiter(rate.Every(DefaultPageInterval), 1),
		log:     logging.NopLogger{},
		now:     time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Runner) loadState(ctx context.Context) (*models.SyncState, error) {
	raw, err := r.meta.Get(ctx, SyncStateKey)
	if err != nil {
		return nil, fmt.Errorf("reading sync state: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var state models.SyncState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decoding sync state: %w", err)
	}
	return &state, nil
}

func (r *Runner) saveState(ctx context.Context, state *models.SyncState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding sync state: %w", err)
	}
	if err := r.meta.Set(ctx, SyncStateKey, raw); err != nil {
		return fmt.Errorf("persisting sync state: %w", err)
	}
	return nil
}

// Run executes one sync. On any failure the loop stops early, merges already
// applied are kept, and the previous watermark stays untouched so the next
// run re-pulls from the last successful cutoff.
func (r *Runner) Run(ctx context.Context, creds Credentials, pm models.PropertyMap) (*Summary, error) {
	if creds.DatabaseID == "" || creds.Token == "" {
		return nil, common.ErrConfigIncomplete
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil, common.ErrSyncInProgress
	}
	defer r.running.Store(false)

	prev, err := r.loadState(ctx)
	if err != nil {
		return nil, err
	}

	var filter *notion.Filter
	if prev != nil && prev.LastSyncEditedTime != "" {
		filter = notion.EditedAfter(prev.LastSyncEditedTime)
		r.log.Debug(ctx, "incremental pull", "edited_after", prev.LastSyncEditedTime)
	} else {
		r.log.Debug(ctx, "full pull, no prior watermark")
	}
	sorts := []notion.Sort{{Property: "last_edited_time", Direction: notion.DirectionDescending}}

	r.client.SetToken(creds.Token)

	merged := 0
	cursor := ""
	pages := 0
	for {
		// Paces the loop; the first page goes through immediately.
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		res, err := r.client.QueryDatabase(ctx, creds.DatabaseID, filter, sorts, cursor)
		if err != nil {
			r.log.Error(ctx, "pull aborted", "pages", pages, "merged", merged, "error", err)
			return nil, fmt.Errorf("querying database: %w", err)
		}
		pages++

		n, err := r.merger.MergeBatch(ctx, res.Results, pm)
		merged += n
		if err != nil {
			r.log.Error(ctx, "merge aborted", "pages", pages, "merged", merged, "error", err)
			return nil, err
		}
		r.log.Info(ctx, "pulled page", "records", len(res.Results), "merged", n)

		if !res.HasMore {
			break
		}
		cursor = res.NextCursor
	}

	now := r.now()
	next := &models.SyncState{
		RemoteDatabaseID:   creds.DatabaseID,
		RemoteToken:        creds.Token,
		LastSyncAt:         now.UnixMilli(),
		LastSyncEditedTime: now.UTC().Format(time.RFC3339),
	}
	if err := r.saveState(ctx, next); err != nil {
		return nil, err
	}

	r.log.Info(ctx, "sync complete", "merged", merged, "pages", pages)
	return &Summary{Merged: merged}, nil
}
