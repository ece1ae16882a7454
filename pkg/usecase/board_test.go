package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/repository"
	"github.com/worklens-io/worklens/pkg/usecase"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	fn    func(call int) (*model.Board, error)
}

func (f *fakeFetcher) FetchBoard(ctx context.Context) (*model.Board, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.fn(call)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func namedBoard(name string) *model.Board {
	return &model.Board{Name: name, Groups: []model.Group{}}
}

func fixedClock(s string) func() time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestBoardLoadReadThrough(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	fetcher := &fakeFetcher{fn: func(int) (*model.Board, error) {
		return namedBoard("개발팀 작업 현황"), nil
	}}

	board := usecase.NewBoard(repo, fetcher, "12345", usecase.WithClock(fixedClock("2025-03-15")))

	// First load misses and fetches
	first, err := board.Load(ctx)
	gt.NoError(t, err)
	gt.Equal(t, first.BoardName, "개발팀 작업 현황")
	gt.Equal(t, first.UpdatedAt, types.SnapshotDate("2025-03-15"))
	gt.Equal(t, fetcher.callCount(), 1)

	// Second load the same day serves the stored snapshot
	second, err := board.Load(ctx)
	gt.NoError(t, err)
	gt.Equal(t, second.BoardName, "개발팀 작업 현황")
	gt.Equal(t, fetcher.callCount(), 1)
}

func TestBoardLoadServesStoredSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	fetcher := &fakeFetcher{fn: func(int) (*model.Board, error) {
		t.Error("unexpected upstream fetch")
		return nil, errors.New("unreachable")
	}}

	// A snapshot stored earlier today, e.g. by the fetch command
	stored := model.NewSnapshot("12345", namedBoard("stored"), "2025-03-15")
	gt.NoError(t, repo.PutSnapshot(ctx, stored))

	board := usecase.NewBoard(repo, fetcher, "12345", usecase.WithClock(fixedClock("2025-03-15")))
	got, err := board.Load(ctx)
	gt.NoError(t, err)
	gt.Equal(t, got.BoardName, "stored")
	gt.Equal(t, fetcher.callCount(), 0)
}

func TestBoardLoadByDate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	fetcher := &fakeFetcher{fn: func(int) (*model.Board, error) {
		return namedBoard("fresh"), nil
	}}

	gt.NoError(t, repo.PutSnapshot(ctx, model.NewSnapshot("12345", namedBoard("old"), "2025-03-10")))

	board := usecase.NewBoard(repo, fetcher, "12345", usecase.WithClock(fixedClock("2025-03-15")))

	got, err := board.LoadByDate(ctx, "2025-03-10")
	gt.NoError(t, err)
	gt.Equal(t, got.BoardName, "old")
	gt.Equal(t, fetcher.callCount(), 0)

	// An explicitly picked date is expected to exist: no refetch fallback
	_, err = board.LoadByDate(ctx, "2025-03-11")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrSnapshotNotFound))
	gt.Equal(t, fetcher.callCount(), 0)
}

func TestBoardRefreshUpserts(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	call := 0
	fetcher := &fakeFetcher{fn: func(n int) (*model.Board, error) {
		call = n
		return namedBoard("v" + string(rune('0'+n))), nil
	}}

	board := usecase.NewBoard(repo, fetcher, "12345", usecase.WithClock(fixedClock("2025-03-15")))

	_, err := board.Refresh(ctx)
	gt.NoError(t, err)
	second, err := board.Refresh(ctx)
	gt.NoError(t, err)
	gt.Equal(t, call, 2)
	gt.Equal(t, second.BoardName, "v2")

	// Same day, refreshed twice: one record holding the second payload
	dates, err := board.Dates(ctx)
	gt.NoError(t, err)
	gt.Equal(t, dates, []types.SnapshotDate{"2025-03-15"})

	stored, err := board.LoadByDate(ctx, "2025-03-15")
	gt.NoError(t, err)
	gt.Equal(t, stored.BoardName, "v2")
}

func TestBoardRefreshFetchError(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	fetcher := &fakeFetcher{fn: func(int) (*model.Board, error) {
		return nil, errors.New("upstream down")
	}}

	board := usecase.NewBoard(repo, fetcher, "12345", usecase.WithClock(fixedClock("2025-03-15")))
	_, err := board.Load(ctx)
	gt.Error(t, err)

	dates, err := board.Dates(ctx)
	gt.NoError(t, err)
	gt.Equal(t, len(dates), 0)
}

func TestBoardStaleLoadNeverWins(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()

	entered := make(chan struct{})
	release := make(chan struct{})
	fetcher := &fakeFetcher{fn: func(call int) (*model.Board, error) {
		if call == 1 {
			close(entered)
			<-release
			return namedBoard("stale"), nil
		}
		return namedBoard("fresh"), nil
	}}

	board := usecase.NewBoard(repo, fetcher, "12345", usecase.WithClock(fixedClock("2025-03-15")))

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Slow first refresh, overtaken below
		if _, err := board.Refresh(ctx); err != nil {
			t.Error(err)
		}
	}()

	<-entered
	fresh, err := board.Refresh(ctx)
	gt.NoError(t, err)
	gt.Equal(t, fresh.BoardName, "fresh")

	close(release)
	<-done

	// The overtaken refresh completed last but must not overwrite the
	// newer result served for today
	got, err := board.Load(ctx)
	gt.NoError(t, err)
	gt.Equal(t, got.BoardName, "fresh")
	gt.Equal(t, fetcher.callCount(), 2)
}
