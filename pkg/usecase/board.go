package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/interfaces"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/metrics"
)

// Board implements BoardUseCase with read-through caching: a snapshot is
// fetched from upstream at most once per board per day, then served from
// the repository.
type Board struct {
	repo    interfaces.Repository
	fetcher interfaces.BoardFetcher
	boardID types.BoardID
	now     func() time.Time

	// latest is an in-memory copy of the most recent snapshot, guarded by
	// a generation counter so a slow load never overwrites a newer one.
	mu         sync.Mutex
	generation uint64
	latest     *model.Snapshot
}

// BoardOption configures a Board use case
type BoardOption func(*Board)

// WithClock overrides the time source. Test use.
func WithClock(now func() time.Time) BoardOption {
	return func(b *Board) {
		b.now = now
	}
}

// NewBoard creates a Board use case
func NewBoard(repo interfaces.Repository, fetcher interfaces.BoardFetcher, boardID types.BoardID, opts ...BoardOption) *Board {
	b := &Board{
		repo:    repo,
		fetcher: fetcher,
		boardID: boardID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var _ BoardUseCase = (*Board)(nil)

// Load serves today's snapshot. A stored snapshot for today is a cache
// hit; otherwise the board is fetched, stored for today, and served.
func (b *Board) Load(ctx context.Context) (*model.Snapshot, error) {
	today := types.NewSnapshotDate(b.now())

	if snapshot := b.cached(today); snapshot != nil {
		metrics.RecordCacheHit()
		return snapshot, nil
	}

	snapshot, err := b.repo.GetSnapshotByDate(ctx, b.boardID, today)
	if err == nil {
		metrics.RecordCacheHit()
		b.install(b.beginLoad(), snapshot)
		return snapshot, nil
	}
	if !errors.Is(err, model.ErrSnapshotNotFound) {
		return nil, goerr.Wrap(err, "failed to read snapshot",
			goerr.V("boardID", b.boardID), goerr.V("date", today))
	}

	metrics.RecordCacheMiss()
	return b.Refresh(ctx)
}

// LoadByDate serves the stored snapshot for an explicitly picked date.
// It never refetches; a missing date is an error.
func (b *Board) LoadByDate(ctx context.Context, date types.SnapshotDate) (*model.Snapshot, error) {
	snapshot, err := b.repo.GetSnapshotByDate(ctx, b.boardID, date)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load snapshot for date",
			goerr.V("boardID", b.boardID), goerr.V("date", date))
	}
	return snapshot, nil
}

// Dates lists stored snapshot dates, newest first
func (b *Board) Dates(ctx context.Context) ([]types.SnapshotDate, error) {
	dates, err := b.repo.ListSnapshotDates(ctx, b.boardID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list snapshot dates",
			goerr.V("boardID", b.boardID))
	}
	return dates, nil
}

// Refresh fetches the board from upstream and stores it for today. The
// write is an upsert, so refreshing twice in one day keeps one record.
func (b *Board) Refresh(ctx context.Context) (*model.Snapshot, error) {
	logger := ctxlog.From(ctx)
	gen := b.beginLoad()

	metrics.RecordBoardFetch()
	board, err := b.fetcher.FetchBoard(ctx)
	if err != nil {
		metrics.RecordBoardFetchError()
		return nil, goerr.Wrap(err, "failed to fetch board",
			goerr.V("boardID", b.boardID))
	}

	snapshot := model.NewSnapshot(b.boardID, board, types.NewSnapshotDate(b.now()))
	if err := b.repo.PutSnapshot(ctx, snapshot); err != nil {
		return nil, goerr.Wrap(err, "failed to store snapshot",
			goerr.V("boardID", b.boardID), goerr.V("date", snapshot.UpdatedAt))
	}

	if !b.install(gen, snapshot) {
		logger.Debug("Discarded stale board load",
			"boardID", b.boardID,
			"date", snapshot.UpdatedAt,
		)
	} else {
		logger.Info("Refreshed board snapshot",
			"boardID", b.boardID,
			"boardName", snapshot.BoardName,
			"date", snapshot.UpdatedAt,
		)
	}
	return snapshot, nil
}

// cached returns the in-memory snapshot if it matches the given date
func (b *Board) cached(date types.SnapshotDate) *model.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.latest != nil && b.latest.UpdatedAt == date {
		return b.latest
	}
	return nil
}

// beginLoad marks the start of a load and returns its generation. Starting
// a newer load invalidates every load still in flight.
func (b *Board) beginLoad() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generation++
	return b.generation
}

// install publishes a load result unless a newer load has started since
func (b *Board) install(gen uint64, snapshot *model.Snapshot) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		return false
	}
	b.latest = snapshot
	return true
}
