// Package cooldown keeps the per-product suppression windows for stock
// notifications and basket automation, and persists them across restarts.
package cooldown

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/donaldgifford/stock-tracker/internal/metrics"
	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// Store holds the stock and basket cooldown maps of one storefront. All
// methods are safe for concurrent use; lookups ignore expired records even
// before they are pruned.
type Store struct {
	mu      sync.Mutex
	saveMu  sync.Mutex
	stock   map[string]domain.Cooldown
	basket  map[string]domain.Cooldown
	persist Persister
	storeID string
	log     *slog.Logger
	nowFunc func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithNowFunc overrides the clock for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = f
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithPersister sets the durable backend used by Persist and Restore.
func WithPersister(p Persister) Option {
	return func(s *Store) {
		s.persist = p
	}
}

// New creates an empty Store for the given storefront id. Without a
// persister, Persist and Restore are no-ops.
func New(storeID string, opts ...Option) *Store {
	s := &Store{
		stock:   make(map[string]domain.Cooldown),
		basket:  make(map[string]domain.Cooldown),
		storeID: storeID,
		log:     slog.Default(),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.nowFunc()
}

func (s *Store) lookup(m map[string]domain.Cooldown, id string) (domain.Cooldown, bool) {
	c, ok := m[id]
	if !ok || !c.Active(s.nowFunc()) {
		return domain.Cooldown{}, false
	}
	return c, true
}

// Has reports whether an active stock cooldown exists for id.
func (s *Store) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// HasBasket reports whether an active basket cooldown exists for id.
func (s *Store) HasBasket(id string) bool {
	_, ok := s.GetBasket(id)
	return ok
}

// Get returns the active stock cooldown for id.
func (s *Store) Get(id string) (domain.Cooldown, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(s.stock, id)
}

// GetBasket returns the active basket cooldown for id.
func (s *Store) GetBasket(id string) (domain.Cooldown, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(s.basket, id)
}

// Set upserts a stock cooldown tagged with the buyable state.
func (s *Store) Set(id string, buyable bool, d time.Duration) domain.Cooldown {
	c := domain.Cooldown{
		ID:         id,
		Buyability: domain.BuyabilityOf(buyable),
		EndTime:    s.nowFunc().Add(d),
	}
	s.mu.Lock()
	s.stock[id] = c
	s.updateGauges()
	s.mu.Unlock()
	return c
}

// SetBasket upserts a basket cooldown.
func (s *Store) SetBasket(id string, d time.Duration) domain.Cooldown {
	c := domain.Cooldown{
		ID:         id,
		Buyability: domain.BuyabilityNotApplicable,
		EndTime:    s.nowFunc().Add(d),
	}
	s.mu.Lock()
	s.basket[id] = c
	s.updateGauges()
	s.mu.Unlock()
	return c
}

// Delete removes the stock cooldown for id and reports whether an active
// one existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.stock[id]
	delete(s.stock, id)
	s.updateGauges()
	return ok && c.Active(s.nowFunc())
}

// DeleteBasket removes the basket cooldown for id and reports whether an
// active one existed.
func (s *Store) DeleteBasket(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.basket[id]
	delete(s.basket, id)
	s.updateGauges()
	return ok && c.Active(s.nowFunc())
}

// DeleteIn removes the cooldown for id from the named domain.
func (s *Store) DeleteIn(d domain.CooldownDomain, id string) bool {
	if d == domain.CooldownBasket {
		return s.DeleteBasket(id)
	}
	return s.Delete(id)
}

// PruneExpired drops every record of both domains whose end time is not
// after now, and returns how many were removed.
func (s *Store) PruneExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, m := range []map[string]domain.Cooldown{s.stock, s.basket} {
		for id, c := range m {
			if !c.Active(now) {
				delete(m, id)
				removed++
			}
		}
	}
	s.updateGauges()
	return removed
}

// List returns the active records of one domain sorted by id.
func (s *Store) List(d domain.CooldownDomain) []domain.Cooldown {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.stock
	if d == domain.CooldownBasket {
		m = s.basket
	}
	return activeSorted(m, s.nowFunc())
}

// Len returns the number of active records per domain.
func (s *Store) Len() (stock, basket int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowFunc()
	return len(activeSorted(s.stock, now)), len(activeSorted(s.basket, now))
}

func activeSorted(m map[string]domain.Cooldown, now time.Time) []domain.Cooldown {
	out := make([]domain.Cooldown, 0, len(m))
	for _, c := range m {
		if c.Active(now) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b domain.Cooldown) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Snapshot copies the non-expired records of both domains.
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	return &Snapshot{
		Stock:  activeSorted(s.stock, now),
		Basket: activeSorted(s.basket, now),
	}
}

// Persist writes a snapshot through the persister. Saves are serialized,
// so a later snapshot is never overwritten by an earlier one. The maps stay
// unlocked while the write is in flight.
func (s *Store) Persist(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	snap := s.Snapshot()
	if err := s.persist.Save(ctx, snap); err != nil {
		return err
	}
	s.log.Debug("cooldowns persisted",
		"store", s.storeID,
		"stock", len(snap.Stock),
		"basket", len(snap.Basket),
	)
	return nil
}

// Restore replaces both maps with the persisted snapshot. A missing or
// unreadable snapshot leaves the store empty; Restore never fails.
func (s *Store) Restore(ctx context.Context) {
	stock := make(map[string]domain.Cooldown)
	basket := make(map[string]domain.Cooldown)

	if s.persist != nil {
		snap, err := s.persist.Load(ctx)
		switch {
		case err != nil:
			s.log.Warn("cooldown restore failed, starting empty", "store", s.storeID, "error", err)
		case snap != nil:
			now := s.nowFunc()
			load(stock, snap.Stock, now)
			load(basket, snap.Basket, now)
		}
	}

	s.mu.Lock()
	s.stock = stock
	s.basket = basket
	s.updateGauges()
	s.mu.Unlock()

	s.log.Info("cooldowns restored", "store", s.storeID, "stock", len(stock), "basket", len(basket))
}

func load(dst map[string]domain.Cooldown, records []domain.Cooldown, now time.Time) {
	for _, c := range records {
		if c.ID == "" || !c.Active(now) {
			continue
		}
		dst[c.ID] = c
	}
}

// updateGauges must be called with mu held.
func (s *Store) updateGauges() {
	metrics.CooldownsActive.WithLabelValues(s.storeID, string(domain.CooldownStock)).Set(float64(len(s.stock)))
	metrics.CooldownsActive.WithLabelValues(s.storeID, string(domain.CooldownBasket)).Set(float64(len(s.basket)))
}
