package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/donaldgifford/stock-tracker/internal/cooldown"
	"github.com/donaldgifford/stock-tracker/internal/metrics"
	"github.com/donaldgifford/stock-tracker/internal/notify"
	"github.com/donaldgifford/stock-tracker/internal/storefront"
	"github.com/donaldgifford/stock-tracker/pkg/logger"
	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// ErrCycleInProgress is returned when a cycle for the same storefront is
// already running.
var ErrCycleInProgress = errors.New("cycle already in progress")

// ErrUnknownStore is returned for a storefront id that is not configured.
var ErrUnknownStore = errors.New("unknown store")

// Cycle outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeUnauthorized = "unauthorized"
	OutcomeRateLimited  = "rate_limited"
	OutcomeCanceled     = "canceled"
	OutcomeBusy         = "busy"
)

// Pager walks every page of a query. *storefront.Paginator implements it.
type Pager interface {
	Each(ctx context.Context, q storefront.Query, fn func([]domain.Item) error) error
}

// Storefront bundles everything one polling cycle needs for one store.
type Storefront struct {
	ID        string
	Queries   []storefront.Query
	Pager     Pager
	Evaluator *Evaluator
	Cooldowns *cooldown.Store
	Notifier  notify.Notifier
	// Basket is nil when basket automation is disabled.
	Basket *BasketRunner

	mu                   sync.Mutex
	rateLimitedUntil     time.Time
	unauthorizedNotified bool
}

// CycleReport summarizes one cycle of one storefront.
type CycleReport struct {
	Store         string        `json:"store"`
	Outcome       string        `json:"outcome"`
	Items         int           `json:"items"`
	Notified      int           `json:"notified"`
	Suppressed    int           `json:"suppressed"`
	PriceChanges  int           `json:"priceChanges"`
	Eligible      int           `json:"eligible"`
	Cookies       int           `json:"cookies"`
	QueryErrors   int           `json:"queryErrors"`
	Pruned        int           `json:"pruned"`
	Duration      time.Duration `json:"duration"`
	Error         string        `json:"error,omitempty"`
	eligibleItems map[string]domain.Product
}

func (r *CycleReport) add(res *Result) {
	for i := range res.Decisions {
		d := &res.Decisions[i]
		if d.Notified {
			r.Notified++
		}
		if d.Suppressed {
			r.Suppressed++
		}
		if d.PriceChanged {
			r.PriceChanges++
		}
	}
	maps.Copy(r.eligibleItems, res.Eligible)
}

// Engine runs polling cycles over a fixed set of storefronts.
type Engine struct {
	stores  []*Storefront
	byID    map[string]*Storefront
	log     *slog.Logger
	nowFunc func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithNowFunc overrides the clock for testing.
func WithNowFunc(f func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowFunc = f
	}
}

// NewEngine creates an Engine over the given storefronts.
func NewEngine(stores []*Storefront, opts ...EngineOption) *Engine {
	eng := &Engine{
		stores:  stores,
		byID:    make(map[string]*Storefront, len(stores)),
		log:     slog.Default(),
		nowFunc: time.Now,
	}
	for _, sf := range stores {
		eng.byID[sf.ID] = sf
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// Stores returns the configured storefront ids in configuration order.
func (eng *Engine) Stores() []string {
	ids := make([]string, len(eng.stores))
	for i, sf := range eng.stores {
		ids[i] = sf.ID
	}
	return ids
}

// Cooldowns returns the cooldown store of a storefront.
func (eng *Engine) Cooldowns(storeID string) (*cooldown.Store, error) {
	sf, ok := eng.byID[storeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, storeID)
	}
	return sf.Cooldowns, nil
}

// RunCycle runs one cycle for every storefront in turn. A storefront that is
// aborted does not stop the others.
func (eng *Engine) RunCycle(ctx context.Context) ([]CycleReport, error) {
	reports := make([]CycleReport, 0, len(eng.stores))
	var errs []error
	for _, sf := range eng.stores {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		r, err := eng.runStore(ctx, sf)
		reports = append(reports, r)
		if err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", sf.ID, err))
		}
	}
	return reports, errors.Join(errs...)
}

// RunStore runs one cycle for a single storefront.
func (eng *Engine) RunStore(ctx context.Context, storeID string) (CycleReport, error) {
	sf, ok := eng.byID[storeID]
	if !ok {
		return CycleReport{Store: storeID}, fmt.Errorf("%w: %s", ErrUnknownStore, storeID)
	}
	return eng.runStore(ctx, sf)
}

func (eng *Engine) runStore(ctx context.Context, sf *Storefront) (report CycleReport, err error) {
	report = CycleReport{
		Store:         sf.ID,
		eligibleItems: make(map[string]domain.Product),
	}

	if !sf.mu.TryLock() {
		report.Outcome = OutcomeBusy
		return report, ErrCycleInProgress
	}
	defer sf.mu.Unlock()

	log := logger.ForStore(eng.log, sf.ID)
	start := eng.nowFunc()
	defer func() {
		report.Duration = eng.nowFunc().Sub(start)
		metrics.CycleDuration.WithLabelValues(sf.ID).Observe(report.Duration.Seconds())
		metrics.CyclesTotal.WithLabelValues(sf.ID, report.Outcome).Inc()
	}()

	report.Pruned = sf.Cooldowns.PruneExpired(start)

	err = eng.runQueries(ctx, sf, &report, log)
	if err == nil && sf.Basket != nil && len(report.eligibleItems) > 0 {
		report.Cookies, err = sf.Basket.Run(ctx, report.eligibleItems)
	}
	report.Eligible = len(report.eligibleItems)

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	perr := sf.Cooldowns.Persist(persistCtx)
	cancel()
	if perr != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("cooldowns").Inc()
		log.Error("persisting cooldowns", "error", perr)
	}

	if err != nil {
		report.Outcome = eng.abort(ctx, sf, err, log)
		report.Error = err.Error()
		return report, err
	}

	sf.unauthorizedNotified = false
	report.Outcome = OutcomeOK
	log.Info("cycle complete",
		"items", report.Items,
		"notified", report.Notified,
		"suppressed", report.Suppressed,
		"eligible", report.Eligible,
		"cookies", report.Cookies,
		"query_errors", report.QueryErrors,
	)
	return report, nil
}

// runQueries pages through every query. Only fatal storefront errors and
// cancellation are returned; other query failures are logged and the next
// query runs.
func (eng *Engine) runQueries(
	ctx context.Context,
	sf *Storefront,
	report *CycleReport,
	log *slog.Logger,
) error {
	for _, q := range sf.Queries {
		err := sf.Pager.Each(ctx, q, func(items []domain.Item) error {
			report.Items += len(items)
			res, err := sf.Evaluator.Evaluate(ctx, items)
			if res != nil {
				report.add(res)
			}
			return err
		})
		if err == nil {
			continue
		}
		if fatal(err) || ctx.Err() != nil {
			return err
		}
		report.QueryErrors++
		metrics.QueryErrorsTotal.WithLabelValues(sf.ID, q.Name).Inc()
		log.Error("query failed", "query", q.Name, "error", err)
	}
	return nil
}

// abort notifies the operator about a fatal cycle error and returns the
// outcome label. Repeated notifications are held back while the same
// condition persists.
func (eng *Engine) abort(ctx context.Context, sf *Storefront, err error, log *slog.Logger) string {
	var rl *storefront.RateLimitError
	switch {
	case errors.As(err, &rl):
		now := eng.nowFunc()
		log.Warn("cycle aborted, rate limited", "retry_after", rl.RetryAfter.String())
		if !now.Before(sf.rateLimitedUntil) {
			sf.rateLimitedUntil = now.Add(rl.RetryAfter)
			if nerr := sf.Notifier.NotifyRateLimit(ctx, rl.Seconds()); nerr != nil {
				log.Debug("rate limit notification failed", "error", nerr)
			}
		}
		return OutcomeRateLimited

	case errors.Is(err, storefront.ErrUnauthorized):
		log.Error("cycle aborted, session unauthorized", "error", err)
		if !sf.unauthorizedNotified {
			sf.unauthorizedNotified = true
			msg := "Storefront rejected the session; refresh the session cookie."
			if nerr := sf.Notifier.NotifyAdmin(ctx, msg); nerr != nil {
				log.Debug("admin notification failed", "error", nerr)
			}
		}
		return OutcomeUnauthorized

	default:
		log.Warn("cycle canceled", "error", err)
		return OutcomeCanceled
	}
}

// PersistAll writes the cooldowns of every storefront.
func (eng *Engine) PersistAll(ctx context.Context) error {
	var errs []error
	for _, sf := range eng.stores {
		if err := sf.Cooldowns.Persist(ctx); err != nil {
			metrics.PersistenceErrorsTotal.WithLabelValues("cooldowns").Inc()
			errs = append(errs, fmt.Errorf("persisting %s cooldowns: %w", sf.ID, err))
		}
	}
	return errors.Join(errs...)
}

// RestoreAll loads the persisted cooldowns of every storefront.
func (eng *Engine) RestoreAll(ctx context.Context) {
	for _, sf := range eng.stores {
		sf.Cooldowns.Restore(ctx)
	}
}
