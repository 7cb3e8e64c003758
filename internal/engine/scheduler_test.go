package engine

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/stock-tracker/internal/storefront"
	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

func TestNewScheduler_RegistersCronEntries(t *testing.T) {
	t.Parallel()

	now := testNow
	eng := newTestEngine(&now)

	sched, err := NewScheduler(eng, time.Minute, 10*time.Minute, quietLogger())
	require.NoError(t, err)

	assert.Len(t, sched.Entries(), 2)
	assert.NotZero(t, sched.cycleEntryID)
	assert.NotZero(t, sched.persistEntryID)
	assert.NotEqual(t, sched.cycleEntryID, sched.persistEntryID)
	assert.True(t, sched.NextCycle().IsZero(), "no next run before Start")
}

func TestNewScheduler_RejectsBadIntervals(t *testing.T) {
	t.Parallel()

	now := testNow
	eng := newTestEngine(&now)

	_, err := NewScheduler(eng, 0, time.Minute, nil)
	require.Error(t, err)
	_, err = NewScheduler(eng, time.Minute, -time.Second, nil)
	require.Error(t, err)
}

func TestScheduler_StartStopPersists(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "sched-stop", &now, false)
	eng := newTestEngine(&now, f.sf)
	f.sf.Cooldowns.Set("A", true, time.Hour)

	sched, err := NewScheduler(eng, time.Hour, time.Hour, quietLogger())
	require.NoError(t, err)

	sched.Start()
	assert.False(t, sched.NextCycle().IsZero())

	require.NoError(t, sched.Stop(context.Background()))

	_, err = os.Stat(f.path)
	require.NoError(t, err, "final persist on stop")
}

func TestScheduler_RunCycleJob(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "sched-job", &now, false)
	f.sf.Queries = f.sf.Queries[:1]
	eng := newTestEngine(&now, f.sf)

	f.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, 1).
		Return(page(newItem("A", true, domain.AvailabilityInStore, 0)), nil).Once()
	f.notifier.EXPECT().NotifyStock(mock.Anything, itemID("A"), 0).Return("", nil).Once()

	sched, err := NewScheduler(eng, time.Hour, time.Hour, quietLogger())
	require.NoError(t, err)

	sched.runCycle()
	assert.True(t, f.sf.Cooldowns.Has("A"))

	sched.runPersist()
	assert.FileExists(t, f.path)
}

func TestScheduler_RunCycleSkipsBusyStore(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "sched-busy", &now, false)
	eng := newTestEngine(&now, f.sf)

	sched, err := NewScheduler(eng, time.Hour, time.Hour, quietLogger())
	require.NoError(t, err)

	f.sf.mu.Lock()
	defer f.sf.mu.Unlock()

	// The fetcher mock has no expectations: a busy store must not be polled.
	sched.runCycle()
}

func TestScheduler_StopCancelsInFlightCycle(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "sched-cancel", &now, false)
	f.sf.Queries = f.sf.Queries[:1]
	f.sf.Cooldowns.Set("A", true, time.Hour)
	eng := newTestEngine(&now, f.sf)

	entered := make(chan struct{})
	f.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, 1).
		RunAndReturn(func(ctx context.Context, _ storefront.Query, _ int) (*storefront.Page, error) {
			close(entered)
			<-ctx.Done()
			return nil, ctx.Err()
		}).Once()

	sched, err := NewScheduler(eng, time.Hour, time.Hour, quietLogger())
	require.NoError(t, err)

	sched.RunNow()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sched.Stop(ctx))
	assert.FileExists(t, f.path)
}

func TestScheduler_StopPersistsWhenJobsOutlastTimeout(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "sched-slow", &now, false)
	f.sf.Queries = f.sf.Queries[:1]
	f.sf.Cooldowns.Set("A", true, time.Hour)
	eng := newTestEngine(&now, f.sf)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, 1).
		RunAndReturn(func(ctx context.Context, _ storefront.Query, _ int) (*storefront.Page, error) {
			close(entered)
			<-release
			return nil, ctx.Err()
		}).Once()

	sched, err := NewScheduler(eng, time.Hour, time.Hour, quietLogger())
	require.NoError(t, err)

	sched.RunNow()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = sched.Stop(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.FileExists(t, f.path, "final persist runs after the wait times out")

	close(release)
	sched.extra.Wait()
}

func TestScheduler_RunCycleLogsEachStore(t *testing.T) {
	t.Parallel()

	now := testNow
	busy := newStoreFixture(t, "sched-log-busy", &now, false)
	ok := newStoreFixture(t, "sched-log-ok", &now, false)
	ok.sf.Queries = ok.sf.Queries[:1]
	eng := newTestEngine(&now, busy.sf, ok.sf)

	ok.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, 1).
		Return(page(newItem("A", true, domain.AvailabilityInStore, 0)), nil).Once()
	ok.notifier.EXPECT().NotifyStock(mock.Anything, itemID("A"), 0).Return("", nil).Once()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sched, err := NewScheduler(eng, time.Hour, time.Hour, log)
	require.NoError(t, err)

	busy.sf.mu.Lock()
	sched.runCycle()
	busy.sf.mu.Unlock()

	out := buf.String()
	assert.Contains(t, out, `msg="store skipped, cycle already running" store=sched-log-busy`)
	assert.Contains(t, out, `msg="store cycle finished" store=sched-log-ok items=1 notified=1`)
	assert.True(t, ok.sf.Cooldowns.Has("A"), "the free store still ran")
}
