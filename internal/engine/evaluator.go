package engine

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/donaldgifford/stock-tracker/internal/availability"
	"github.com/donaldgifford/stock-tracker/internal/cooldown"
	"github.com/donaldgifford/stock-tracker/internal/metrics"
	"github.com/donaldgifford/stock-tracker/internal/notify"
	"github.com/donaldgifford/stock-tracker/internal/store"
	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// Tiers are the stock cooldown durations chosen after a notification.
type Tiers struct {
	Buyable            time.Duration
	NotAddable         time.Duration
	AddableNoCookies   time.Duration
	AddableWithCookies time.Duration
}

// DefaultTiers returns the stock cooldown durations used when none are
// configured.
func DefaultTiers() Tiers {
	return Tiers{
		Buyable:            5 * time.Minute,
		NotAddable:         12 * time.Hour,
		AddableNoCookies:   24 * time.Hour,
		AddableWithCookies: 2 * time.Hour,
	}
}

// For returns the cooldown for an item in the given state. Branches are
// checked in order: buyable wins over everything else.
func (t Tiers) For(buyable, addable bool, cookies int) time.Duration {
	switch {
	case buyable:
		return t.Buyable
	case !addable:
		return t.NotAddable
	case cookies == 0:
		return t.AddableNoCookies
	default:
		return t.AddableWithCookies
	}
}

// Decision records what the evaluator did with one item.
type Decision struct {
	ProductID     string
	Available     bool
	Buyable       bool
	Addable       bool
	CooldownReset bool
	PriceChanged  bool
	Notified      bool
	Suppressed    bool
	Cookies       int
	Cooldown      time.Duration
}

// Result is the outcome of evaluating one batch.
type Result struct {
	Decisions []Decision
	// Eligible holds products that may go through basket automation this
	// cycle, keyed by product id.
	Eligible map[string]domain.Product
}

// Evaluator turns item batches into notifications, cooldown mutations and
// the basket-eligible product set for one storefront.
type Evaluator struct {
	storeID    string
	classifier availability.Classifier
	cooldowns  *cooldown.Store
	store      store.Store
	notifier   notify.Notifier
	tiers      Tiers
	log        *slog.Logger
}

// EvaluatorOption configures the Evaluator.
type EvaluatorOption func(*Evaluator)

// WithTiers overrides the stock cooldown durations.
func WithTiers(t Tiers) EvaluatorOption {
	return func(e *Evaluator) {
		e.tiers = t
	}
}

// WithEvaluatorLogger sets the logger.
func WithEvaluatorLogger(l *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		e.log = l
	}
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(
	storeID string,
	classifier availability.Classifier,
	cooldowns *cooldown.Store,
	s store.Store,
	n notify.Notifier,
	opts ...EvaluatorOption,
) *Evaluator {
	e := &Evaluator{
		storeID:    storeID,
		classifier: classifier,
		cooldowns:  cooldowns,
		store:      s,
		notifier:   n,
		tiers:      DefaultTiers(),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate processes items strictly in order. Collaborator failures are
// logged and counted; the only error returned is the context's.
func (e *Evaluator) Evaluate(ctx context.Context, items []domain.Item) (*Result, error) {
	res := &Result{Eligible: make(map[string]domain.Product)}

	for i := range items {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		item := &items[i]
		id := item.ProductID()
		if id == "" {
			continue
		}

		d, ok := e.evaluateItem(ctx, item)
		if !ok {
			continue
		}
		res.Decisions = append(res.Decisions, d)

		if d.Addable && !e.cooldowns.HasBasket(id) {
			res.Eligible[id] = *item.Product
		}
	}

	return res, nil
}

func (e *Evaluator) evaluateItem(ctx context.Context, item *domain.Item) (Decision, bool) {
	id := item.ProductID()
	d := Decision{ProductID: id}

	metrics.ItemsEvaluatedTotal.WithLabelValues(e.storeID).Inc()

	d.Available = e.classifier.IsAvailable(item)
	if !d.Available {
		return d, false
	}
	d.Buyable = e.classifier.IsBuyable(item)
	d.Addable = e.classifier.CanBeAddedToBasket(item)

	if d.Buyable {
		if c, ok := e.cooldowns.Get(id); ok && c.Buyability != domain.BuyabilityBuyable {
			e.cooldowns.Delete(id)
			d.CooldownReset = true
			metrics.CooldownResetsTotal.WithLabelValues(e.storeID).Inc()
			e.log.Debug("cleared stale cooldown", "product_id", id, "was", c.Buyability.String())
		}
	}

	d.PriceChanged = e.checkPrice(ctx, item)

	if e.cooldowns.Has(id) {
		d.Suppressed = true
		metrics.SuppressedTotal.WithLabelValues(e.storeID).Inc()
		return d, true
	}

	d.Cookies = e.cookies(ctx, id)
	if _, err := e.notifier.NotifyStock(ctx, item, d.Cookies); err != nil {
		e.log.Debug("stock notification failed", "product_id", id, "error", err)
	}
	d.Notified = true
	metrics.StockNotificationsTotal.WithLabelValues(e.storeID, strconv.FormatBool(d.Buyable)).Inc()

	d.Cooldown = e.tiers.For(d.Buyable, d.Addable, d.Cookies)
	e.cooldowns.Set(id, d.Buyable, d.Cooldown)

	e.log.Info("stock notification",
		"product_id", id,
		"buyable", d.Buyable,
		"cookies", d.Cookies,
		"cooldown", d.Cooldown.String(),
	)
	return d, true
}

// checkPrice notifies on a change against the last stored price and keeps
// the stored price current. A failed read counts as no known price.
func (e *Evaluator) checkPrice(ctx context.Context, item *domain.Item) bool {
	id := item.ProductID()

	old, known, err := e.store.LastKnownPrice(ctx, e.storeID, id)
	if err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("last_known_price").Inc()
		e.log.Warn("reading last known price", "product_id", id, "error", err)
		known = false
	}

	if !item.Price.Defined() {
		return false
	}
	price := item.Price.Amount

	changed := known && old != price
	if changed {
		metrics.PriceChangesTotal.WithLabelValues(e.storeID).Inc()
		if err := e.notifier.NotifyPriceChange(ctx, item, old); err != nil {
			e.log.Debug("price change notification failed", "product_id", id, "error", err)
		}
	}

	if !known || old != price {
		if err := e.store.StorePrice(ctx, e.storeID, id, price); err != nil {
			metrics.PersistenceErrorsTotal.WithLabelValues("store_price").Inc()
			e.log.Warn("storing price", "product_id", id, "error", err)
		}
	}
	return changed
}

func (e *Evaluator) cookies(ctx context.Context, id string) int {
	n, err := e.store.CookiesAmount(ctx, e.storeID, id)
	if err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("cookies_amount").Inc()
		e.log.Warn("reading cookie count", "product_id", id, "error", err)
		return 0
	}
	return n
}
