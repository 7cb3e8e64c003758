package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/stock-tracker/internal/availability"
	"github.com/donaldgifford/stock-tracker/internal/cooldown"
	"github.com/donaldgifford/stock-tracker/internal/metrics"
	notifyMocks "github.com/donaldgifford/stock-tracker/internal/notify/mocks"
	"github.com/donaldgifford/stock-tracker/internal/store"
	"github.com/donaldgifford/stock-tracker/internal/storefront"
	sfMocks "github.com/donaldgifford/stock-tracker/internal/storefront/mocks"
	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

var (
	wishlistQ = storefront.Query{Name: "wishlist", Kind: storefront.QueryWishlist}
	searchQ   = storefront.Query{Name: "search", Kind: storefront.QuerySearch}
)

func queryNamed(name string) any {
	return mock.MatchedBy(func(q storefront.Query) bool { return q.Name == name })
}

type storeFixture struct {
	sf       *Storefront
	fetcher  *sfMocks.MockFetcher
	creator  *sfMocks.MockCookieCreator
	notifier *notifyMocks.MockNotifier
	path     string
}

// newStoreFixture wires a storefront with a real paginator over a mocked
// fetcher, a memory store, a file persister and mocked notifier.
func newStoreFixture(t *testing.T, id string, now *time.Time, basket bool) *storeFixture {
	t.Helper()

	f := &storeFixture{
		fetcher:  sfMocks.NewMockFetcher(t),
		notifier: notifyMocks.NewMockNotifier(t),
		path:     filepath.Join(t.TempDir(), id+".json"),
	}

	cds := cooldown.New(id,
		cooldown.WithNowFunc(func() time.Time { return *now }),
		cooldown.WithPersister(cooldown.NewFilePersister(f.path)),
		cooldown.WithLogger(quietLogger()),
	)
	s := store.NewMemoryStore()

	f.sf = &Storefront{
		ID:        id,
		Queries:   []storefront.Query{wishlistQ, searchQ},
		Pager:     storefront.NewPaginator(f.fetcher, storefront.WithPaginatorLogger(quietLogger())),
		Evaluator: NewEvaluator(id, availability.New(true), cds, s, f.notifier, WithEvaluatorLogger(quietLogger())),
		Cooldowns: cds,
		Notifier:  f.notifier,
	}
	if basket {
		f.creator = sfMocks.NewMockCookieCreator(t)
		f.sf.Basket = NewBasketRunner(id, f.creator, s, cds, f.notifier, WithBasketLogger(quietLogger()))
	}
	return f
}

func newTestEngine(now *time.Time, stores ...*Storefront) *Engine {
	return NewEngine(stores,
		WithLogger(quietLogger()),
		WithNowFunc(func() time.Time { return *now }),
	)
}

func page(items ...domain.Item) *storefront.Page {
	return &storefront.Page{Items: items, Page: 1, TotalPages: 1}
}

func TestNewEngine_Defaults(t *testing.T) {
	t.Parallel()

	now := testNow
	a := newStoreFixture(t, "eng-a", &now, false)
	b := newStoreFixture(t, "eng-b", &now, false)

	eng := NewEngine([]*Storefront{a.sf, b.sf})
	assert.NotNil(t, eng.log)
	assert.Equal(t, []string{"eng-a", "eng-b"}, eng.Stores())

	cds, err := eng.Cooldowns("eng-b")
	require.NoError(t, err)
	assert.Same(t, b.sf.Cooldowns, cds)

	_, err = eng.Cooldowns("nope")
	require.ErrorIs(t, err, ErrUnknownStore)
}

func TestRunStore_FullCycle(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "eng-full", &now, true)
	eng := newTestEngine(&now, f.sf)

	f.fetcher.EXPECT().Fetch(mock.Anything, queryNamed("wishlist"), 1).Return(page(
		newItem("A", true, domain.AvailabilityInStore, 0),
		newItem("B", false, domain.AvailabilityNone, 0),
	), nil).Once()
	f.fetcher.EXPECT().Fetch(mock.Anything, queryNamed("search"), 1).Return(page(
		newItem("A", true, domain.AvailabilityInStore, 0),
		newItem("C", true, domain.AvailabilityNone, 0),
	), nil).Once()

	f.notifier.EXPECT().NotifyStock(mock.Anything, itemID("A"), 0).Return("", nil).Once()
	f.notifier.EXPECT().NotifyStock(mock.Anything, itemID("C"), 0).Return("", nil).Once()

	f.creator.EXPECT().CreateCookie(mock.Anything, "A").Return(domain.Cookie{Value: "a"}, nil).Once()
	f.creator.EXPECT().CreateCookie(mock.Anything, "C").Return(domain.Cookie{Value: "c"}, nil).Once()
	f.notifier.EXPECT().NotifyCookies(mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	before := ptestutil.ToFloat64(metrics.CyclesTotal.WithLabelValues("eng-full", OutcomeOK))

	report, err := eng.RunStore(context.Background(), "eng-full")
	require.NoError(t, err)

	assert.Equal(t, OutcomeOK, report.Outcome)
	assert.Equal(t, 4, report.Items)
	assert.Equal(t, 2, report.Notified)
	assert.Equal(t, 1, report.Suppressed, "A seen again in the second query")
	assert.Equal(t, 2, report.Eligible)
	assert.Equal(t, 2, report.Cookies)
	assert.Zero(t, report.QueryErrors)

	assert.True(t, f.sf.Cooldowns.HasBasket("A"))
	assert.True(t, f.sf.Cooldowns.HasBasket("C"))
	assert.FileExists(t, f.path, "cooldowns persisted at the end of the cycle")
	assert.InDelta(t, 1, ptestutil.ToFloat64(metrics.CyclesTotal.WithLabelValues("eng-full", OutcomeOK))-before, 0)
}

func TestRunStore_QueryErrorContinues(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "eng-query-err", &now, false)
	eng := newTestEngine(&now, f.sf)

	f.fetcher.EXPECT().Fetch(mock.Anything, queryNamed("wishlist"), 1).
		Return(nil, errors.New("persisted query not found")).Once()
	f.fetcher.EXPECT().Fetch(mock.Anything, queryNamed("search"), 1).
		Return(page(newItem("A", true, domain.AvailabilityInStore, 0)), nil).Once()
	f.notifier.EXPECT().NotifyStock(mock.Anything, itemID("A"), 0).Return("", nil).Once()

	report, err := eng.RunStore(context.Background(), "eng-query-err")
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, report.Outcome)
	assert.Equal(t, 1, report.QueryErrors)
	assert.Equal(t, 1, report.Notified)
}

func TestRunStore_UnauthorizedAborts(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "eng-unauth", &now, false)
	eng := newTestEngine(&now, f.sf)

	f.fetcher.EXPECT().Fetch(mock.Anything, queryNamed("wishlist"), 1).
		Return(nil, fmt.Errorf("GetUser returned 401: %w", storefront.ErrUnauthorized)).Twice()
	f.notifier.EXPECT().NotifyAdmin(mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()

	for range 2 {
		report, err := eng.RunStore(context.Background(), "eng-unauth")
		require.ErrorIs(t, err, storefront.ErrUnauthorized)
		assert.Equal(t, OutcomeUnauthorized, report.Outcome)
		assert.NotEmpty(t, report.Error)
	}
}

func TestRunStore_UnauthorizedNotifiesAgainAfterRecovery(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "eng-unauth-recover", &now, false)
	f.sf.Queries = []storefront.Query{wishlistQ}
	eng := newTestEngine(&now, f.sf)

	f.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, 1).Return(nil, storefront.ErrUnauthorized).Once()
	f.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, 1).Return(page(), nil).Once()
	f.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, 1).Return(nil, storefront.ErrUnauthorized).Once()
	f.notifier.EXPECT().NotifyAdmin(mock.Anything, mock.Anything).Return(nil).Twice()

	_, err := eng.RunStore(context.Background(), "eng-unauth-recover")
	require.Error(t, err)
	_, err = eng.RunStore(context.Background(), "eng-unauth-recover")
	require.NoError(t, err)
	_, err = eng.RunStore(context.Background(), "eng-unauth-recover")
	require.Error(t, err)
}

func TestRunStore_RateLimitedAborts(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "eng-429", &now, false)
	eng := newTestEngine(&now, f.sf)

	rl := &storefront.RateLimitError{RetryAfter: 30 * time.Second}
	f.fetcher.EXPECT().Fetch(mock.Anything, queryNamed("wishlist"), 1).Return(nil, rl).Times(3)
	f.notifier.EXPECT().NotifyRateLimit(mock.Anything, 30).Return(nil).Twice()

	report, err := eng.RunStore(context.Background(), "eng-429")
	var got *storefront.RateLimitError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, OutcomeRateLimited, report.Outcome)

	now = now.Add(10 * time.Second)
	_, err = eng.RunStore(context.Background(), "eng-429")
	require.Error(t, err, "still inside the window, no second notification")

	now = now.Add(time.Minute)
	_, err = eng.RunStore(context.Background(), "eng-429")
	require.Error(t, err)
}

func TestRunStore_PartialMutationsStand(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "eng-partial", &now, false)
	eng := newTestEngine(&now, f.sf)

	f.fetcher.EXPECT().Fetch(mock.Anything, queryNamed("wishlist"), 1).
		Return(&storefront.Page{Items: []domain.Item{newItem("A", true, domain.AvailabilityInStore, 0)}, Page: 1, TotalPages: 2}, nil).Once()
	f.fetcher.EXPECT().Fetch(mock.Anything, queryNamed("wishlist"), 2).
		Return(nil, storefront.ErrUnauthorized).Once()
	f.notifier.EXPECT().NotifyStock(mock.Anything, itemID("A"), 0).Return("", nil).Once()
	f.notifier.EXPECT().NotifyAdmin(mock.Anything, mock.Anything).Return(nil).Once()

	_, err := eng.RunStore(context.Background(), "eng-partial")
	require.ErrorIs(t, err, storefront.ErrUnauthorized)
	assert.True(t, f.sf.Cooldowns.Has("A"))
	assert.FileExists(t, f.path)
}

func TestRunStore_Busy(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "eng-busy", &now, false)
	eng := newTestEngine(&now, f.sf)

	f.sf.mu.Lock()
	defer f.sf.mu.Unlock()

	report, err := eng.RunStore(context.Background(), "eng-busy")
	require.ErrorIs(t, err, ErrCycleInProgress)
	assert.Equal(t, OutcomeBusy, report.Outcome)
}

func TestRunStore_UnknownStore(t *testing.T) {
	t.Parallel()

	now := testNow
	eng := newTestEngine(&now)

	_, err := eng.RunStore(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUnknownStore)
}

func TestRunStore_PrunesExpired(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "eng-prune", &now, false)
	f.sf.Queries = nil
	eng := newTestEngine(&now, f.sf)

	f.sf.Cooldowns.Set("OLD", true, time.Minute)
	f.sf.Cooldowns.SetBasket("OLD", time.Minute)
	now = now.Add(2 * time.Minute)

	report, err := eng.RunStore(context.Background(), "eng-prune")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pruned)
}

func TestRunCycle_AbortedStoreDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	now := testNow
	a := newStoreFixture(t, "eng-multi-a", &now, false)
	b := newStoreFixture(t, "eng-multi-b", &now, false)
	a.sf.Queries = []storefront.Query{wishlistQ}
	b.sf.Queries = []storefront.Query{wishlistQ}
	eng := newTestEngine(&now, a.sf, b.sf)

	a.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, 1).Return(nil, storefront.ErrUnauthorized).Once()
	a.notifier.EXPECT().NotifyAdmin(mock.Anything, mock.Anything).Return(nil).Once()
	b.fetcher.EXPECT().Fetch(mock.Anything, mock.Anything, 1).
		Return(page(newItem("X", true, domain.AvailabilityInStore, 0)), nil).Once()
	b.notifier.EXPECT().NotifyStock(mock.Anything, itemID("X"), 0).Return("", nil).Once()

	reports, err := eng.RunCycle(context.Background())
	require.ErrorIs(t, err, storefront.ErrUnauthorized)
	require.Len(t, reports, 2)
	assert.Equal(t, OutcomeUnauthorized, reports[0].Outcome)
	assert.Equal(t, OutcomeOK, reports[1].Outcome)
	assert.Equal(t, 1, reports[1].Notified)
}

func TestRunCycle_ContextCanceled(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "eng-cancel", &now, false)
	eng := newTestEngine(&now, f.sf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := eng.RunCycle(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, reports)
}

func TestPersistAndRestoreAll(t *testing.T) {
	t.Parallel()

	now := testNow
	f := newStoreFixture(t, "eng-persist", &now, false)
	eng := newTestEngine(&now, f.sf)

	f.sf.Cooldowns.Set("A", false, time.Hour)
	f.sf.Cooldowns.SetBasket("A", 8*time.Hour)
	require.NoError(t, eng.PersistAll(context.Background()))

	restored := cooldown.New("eng-persist",
		cooldown.WithNowFunc(func() time.Time { return now }),
		cooldown.WithPersister(cooldown.NewFilePersister(f.path)),
		cooldown.WithLogger(quietLogger()),
	)
	f.sf.Cooldowns = restored
	eng.RestoreAll(context.Background())

	c, ok := restored.Get("A")
	require.True(t, ok)
	assert.Equal(t, domain.BuyabilityNotBuyable, c.Buyability)
	assert.True(t, restored.HasBasket("A"))
}
