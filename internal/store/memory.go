package store

import (
	"context"
	"slices"
	"sync"
	"time"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

type productKey struct {
	storeID   string
	productID string
}

// MemoryStore is a process-local Store. Data is lost on exit; it backs
// `check` dry runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	prices  map[productKey]float64
	cookies map[productKey][]domain.Cookie
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prices:  make(map[productKey]float64),
		cookies: make(map[productKey][]domain.Cookie),
	}
}

// LastKnownPrice returns the stored price of a product.
func (s *MemoryStore) LastKnownPrice(_ context.Context, storeID, productID string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[productKey{storeID, productID}]
	return p, ok, nil
}

// StorePrice upserts the last known price of a product.
func (s *MemoryStore) StorePrice(_ context.Context, storeID, productID string, price float64) error {
	s.mu.Lock()
	s.prices[productKey{storeID, productID}] = price
	s.mu.Unlock()
	return nil
}

// CookiesAmount counts the basket cookies stored for a product.
func (s *MemoryStore) CookiesAmount(_ context.Context, storeID, productID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cookies[productKey{storeID, productID}]), nil
}

// StoreCookies appends cookies for a product.
func (s *MemoryStore) StoreCookies(
	_ context.Context,
	storeID, productID string,
	cookies []domain.Cookie,
) error {
	now := time.Now()
	k := productKey{storeID, productID}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cookies {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		s.cookies[k] = append(s.cookies[k], c)
	}
	return nil
}

// ListCookies returns a copy of the cookies of a product, oldest first.
func (s *MemoryStore) ListCookies(_ context.Context, storeID, productID string) ([]domain.Cookie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.cookies[productKey{storeID, productID}]), nil
}

// Migrate is a no-op.
func (*MemoryStore) Migrate(context.Context) error { return nil }

// Ping always succeeds.
func (*MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (*MemoryStore) Close() error { return nil }
