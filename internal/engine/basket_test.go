package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/stock-tracker/internal/cooldown"
	notifyMocks "github.com/donaldgifford/stock-tracker/internal/notify/mocks"
	"github.com/donaldgifford/stock-tracker/internal/store"
	"github.com/donaldgifford/stock-tracker/internal/storefront"
	sfMocks "github.com/donaldgifford/stock-tracker/internal/storefront/mocks"
	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

type basketFixture struct {
	cooldowns *cooldown.Store
	store     *store.MemoryStore
	creator   *sfMocks.MockCookieCreator
	notifier  *notifyMocks.MockNotifier
}

func newBasketFixture(t *testing.T) *basketFixture {
	t.Helper()
	return &basketFixture{
		cooldowns: cooldown.New("basket-test",
			cooldown.WithNowFunc(func() time.Time { return testNow }),
			cooldown.WithLogger(quietLogger()),
		),
		store:    store.NewMemoryStore(),
		creator:  sfMocks.NewMockCookieCreator(t),
		notifier: notifyMocks.NewMockNotifier(t),
	}
}

func (f *basketFixture) runner(opts ...BasketOption) *BasketRunner {
	opts = append([]BasketOption{WithBasketLogger(quietLogger())}, opts...)
	return NewBasketRunner("basket-test", f.creator, f.store, f.cooldowns, f.notifier, opts...)
}

func products(ids ...string) map[string]domain.Product {
	m := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		m[id] = domain.Product{ID: id, OnlineStatus: true}
	}
	return m
}

func TestBasketRunner_Success(t *testing.T) {
	t.Parallel()

	f := newBasketFixture(t)
	ctx := context.Background()

	var n atomic.Int32
	f.creator.EXPECT().CreateCookie(mock.Anything, "P1").
		RunAndReturn(func(context.Context, string) (domain.Cookie, error) {
			n.Add(1)
			return domain.Cookie{Value: "v", CreatedAt: testNow}, nil
		}).Times(3)
	f.notifier.EXPECT().NotifyCookies(mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ID == "P1"
	}), mock.MatchedBy(func(c []domain.Cookie) bool { return len(c) == 3 })).Return(nil).Once()

	created, err := f.runner(WithCookiesPerProduct(3), WithConcurrency(2)).Run(ctx, products("P1"))
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, int32(3), n.Load())

	count, err := f.store.CookiesAmount(ctx, "basket-test", "P1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	c, ok := f.cooldowns.GetBasket("P1")
	require.True(t, ok)
	assert.Equal(t, 8*time.Hour, c.EndTime.Sub(testNow))
	assert.Equal(t, domain.BuyabilityNotApplicable, c.Buyability)
}

func TestBasketRunner_PartialSuccess(t *testing.T) {
	t.Parallel()

	f := newBasketFixture(t)

	f.creator.EXPECT().CreateCookie(mock.Anything, "P1").
		Return(domain.Cookie{}, errors.New("out of stock")).Once()
	f.creator.EXPECT().CreateCookie(mock.Anything, "P1").
		Return(domain.Cookie{Value: "ok"}, nil).Once()
	f.notifier.EXPECT().NotifyCookies(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	created, err := f.runner(WithCookiesPerProduct(2), WithConcurrency(1)).Run(context.Background(), products("P1"))
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.True(t, f.cooldowns.HasBasket("P1"))
}

func TestBasketRunner_AllFailedSetsNoCooldown(t *testing.T) {
	t.Parallel()

	f := newBasketFixture(t)

	f.creator.EXPECT().CreateCookie(mock.Anything, "P1").
		Return(domain.Cookie{}, storefront.ErrNoBasketCookie).Once()

	created, err := f.runner().Run(context.Background(), products("P1"))
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.False(t, f.cooldowns.HasBasket("P1"), "basket cooldown is set only after a success")

	count, err := f.store.CookiesAmount(context.Background(), "basket-test", "P1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBasketRunner_SkipsCooledDown(t *testing.T) {
	t.Parallel()

	f := newBasketFixture(t)
	f.cooldowns.SetBasket("P1", time.Hour)

	created, err := f.runner().Run(context.Background(), products("P1"))
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestBasketRunner_RateLimitStopsPass(t *testing.T) {
	t.Parallel()

	f := newBasketFixture(t)

	f.creator.EXPECT().CreateCookie(mock.Anything, "A").
		Return(domain.Cookie{Value: "a"}, nil).Once()
	f.creator.EXPECT().CreateCookie(mock.Anything, "B").
		Return(domain.Cookie{}, &storefront.RateLimitError{RetryAfter: time.Minute}).Once()
	f.creator.EXPECT().CreateCookie(mock.Anything, "C").
		Return(domain.Cookie{}, context.Canceled).Maybe()
	f.notifier.EXPECT().NotifyCookies(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	created, err := f.runner(WithConcurrency(1)).Run(context.Background(), products("A", "B", "C"))

	var rl *storefront.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 1, created, "cookies created before the 429 are still recorded")
	assert.True(t, f.cooldowns.HasBasket("A"))
	assert.False(t, f.cooldowns.HasBasket("B"))
	assert.False(t, f.cooldowns.HasBasket("C"))
}

func TestBasketRunner_Empty(t *testing.T) {
	t.Parallel()

	f := newBasketFixture(t)
	created, err := f.runner().Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, created)
}
