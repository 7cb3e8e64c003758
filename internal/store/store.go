// Package store defines the persistence collaborator for stock-tracker: the
// last known price per product and the basket cookies captured for it.
// Evaluation and basket automation depend on the Store interface, never on a
// concrete backend, so tests run against mocks or the in-memory store.
package store

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("not found")

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Store is keyed by (store shortcode, product id) throughout.
type Store interface {
	// Prices
	LastKnownPrice(ctx context.Context, storeID, productID string) (price float64, ok bool, err error)
	StorePrice(ctx context.Context, storeID, productID string, price float64) error

	// Cookies
	CookiesAmount(ctx context.Context, storeID, productID string) (int, error)
	StoreCookies(ctx context.Context, storeID, productID string, cookies []domain.Cookie) error
	ListCookies(ctx context.Context, storeID, productID string) ([]domain.Cookie, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the backend named by driver. dsn is a Postgres
// connection string or a SQLite file path, and is ignored for memory.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverPostgres:
		s, err := NewPostgresStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		s, err := NewSQLiteStore(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
