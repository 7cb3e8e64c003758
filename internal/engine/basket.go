package engine

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/stock-tracker/internal/cooldown"
	"github.com/donaldgifford/stock-tracker/internal/metrics"
	"github.com/donaldgifford/stock-tracker/internal/notify"
	"github.com/donaldgifford/stock-tracker/internal/store"
	"github.com/donaldgifford/stock-tracker/internal/storefront"
	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

const (
	defaultBasketCooldown    = 8 * time.Hour
	defaultCookiesPerProduct = 1
	defaultBasketConcurrency = 2
)

// BasketRunner creates basket cookies for eligible products and records
// the result.
type BasketRunner struct {
	storeID           string
	creator           storefront.CookieCreator
	store             store.Store
	cooldowns         *cooldown.Store
	notifier          notify.Notifier
	cookiesPerProduct int
	concurrency       int
	cooldown          time.Duration
	log               *slog.Logger
}

// BasketOption configures the BasketRunner.
type BasketOption func(*BasketRunner)

// WithCookiesPerProduct sets how many baskets are opened per product.
func WithCookiesPerProduct(n int) BasketOption {
	return func(b *BasketRunner) {
		b.cookiesPerProduct = n
	}
}

// WithConcurrency bounds the number of in-flight cookie requests.
func WithConcurrency(n int) BasketOption {
	return func(b *BasketRunner) {
		b.concurrency = n
	}
}

// WithBasketCooldown sets the basket cooldown applied after a success.
func WithBasketCooldown(d time.Duration) BasketOption {
	return func(b *BasketRunner) {
		b.cooldown = d
	}
}

// WithBasketLogger sets the logger.
func WithBasketLogger(l *slog.Logger) BasketOption {
	return func(b *BasketRunner) {
		b.log = l
	}
}

// NewBasketRunner creates a BasketRunner.
func NewBasketRunner(
	storeID string,
	creator storefront.CookieCreator,
	s store.Store,
	cooldowns *cooldown.Store,
	n notify.Notifier,
	opts ...BasketOption,
) *BasketRunner {
	b := &BasketRunner{
		storeID:           storeID,
		creator:           creator,
		store:             s,
		cooldowns:         cooldowns,
		notifier:          n,
		cookiesPerProduct: defaultCookiesPerProduct,
		concurrency:       defaultBasketConcurrency,
		cooldown:          defaultBasketCooldown,
		log:               slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.cookiesPerProduct < 1 {
		b.cookiesPerProduct = 1
	}
	if b.concurrency < 1 {
		b.concurrency = 1
	}
	return b
}

// fatal reports errors that end the whole pass instead of one attempt.
func fatal(err error) bool {
	var rl *storefront.RateLimitError
	return errors.Is(err, storefront.ErrUnauthorized) || errors.As(err, &rl)
}

// Run opens baskets for every eligible product without a basket cooldown.
// Products with at least one cookie get their cookies stored, a cookie
// notification and a basket cooldown, even when the pass is cut short. It
// returns the number of cookies created and the first fatal storefront
// error or the context's error.
func (b *BasketRunner) Run(ctx context.Context, eligible map[string]domain.Product) (int, error) {
	ids := make([]string, 0, len(eligible))
	for id := range eligible {
		if !b.cooldowns.HasBasket(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}
	slices.Sort(ids)

	var (
		mu      sync.Mutex
		created = make(map[string][]domain.Cookie, len(ids))
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, id := range ids {
		for range b.cookiesPerProduct {
			g.Go(func() error {
				cookie, err := b.creator.CreateCookie(gCtx, id)
				if err != nil {
					if fatal(err) {
						return err
					}
					if gCtx.Err() != nil {
						return nil
					}
					metrics.BasketFailuresTotal.WithLabelValues(b.storeID).Inc()
					b.log.Warn("creating basket cookie", "product_id", id, "error", err)
					return nil
				}
				mu.Lock()
				created[id] = append(created[id], cookie)
				mu.Unlock()
				return nil
			})
		}
	}
	runErr := g.Wait()

	total := 0
	for _, id := range ids {
		cookies := created[id]
		if len(cookies) == 0 {
			continue
		}
		total += len(cookies)
		b.record(ctx, eligible[id], cookies)
	}

	if runErr == nil {
		runErr = ctx.Err()
	}
	return total, runErr
}

func (b *BasketRunner) record(ctx context.Context, product domain.Product, cookies []domain.Cookie) {
	metrics.BasketCookiesTotal.WithLabelValues(b.storeID).Add(float64(len(cookies)))

	if err := b.store.StoreCookies(ctx, b.storeID, product.ID, cookies); err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("store_cookies").Inc()
		b.log.Warn("storing basket cookies", "product_id", product.ID, "error", err)
	}
	if err := b.notifier.NotifyCookies(ctx, &product, cookies); err != nil {
		b.log.Debug("cookie notification failed", "product_id", product.ID, "error", err)
	}
	b.cooldowns.SetBasket(product.ID, b.cooldown)

	b.log.Info("basket cookies created", "product_id", product.ID, "count", len(cookies))
}
