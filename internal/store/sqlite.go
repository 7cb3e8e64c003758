package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// SQLiteStore implements Store on a single SQLite file through sqlx.
// Timestamps are stored as unix milliseconds.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the database at path. ":memory:" gives
// a private in-process database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection serializes writers and keeps ":memory:" databases
	// from splitting across pool connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configuring sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return runSQLiteMigrations(ctx, s.db)
}

// LastKnownPrice returns the stored price of a product.
func (s *SQLiteStore) LastKnownPrice(
	ctx context.Context,
	storeID, productID string,
) (float64, bool, error) {
	var price float64
	err := s.db.GetContext(ctx, &price, sqliteGetPrice, storeID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("getting price for %s/%s: %w", storeID, productID, err)
	}
	return price, true, nil
}

// StorePrice upserts the last known price of a product.
func (s *SQLiteStore) StorePrice(ctx context.Context, storeID, productID string, price float64) error {
	_, err := s.db.ExecContext(ctx, sqliteUpsertPrice,
		storeID, productID, price, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storing price for %s/%s: %w", storeID, productID, err)
	}
	return nil
}

// CookiesAmount counts the basket cookies stored for a product.
func (s *SQLiteStore) CookiesAmount(ctx context.Context, storeID, productID string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, sqliteCountCookies, storeID, productID); err != nil {
		return 0, fmt.Errorf("counting cookies for %s/%s: %w", storeID, productID, err)
	}
	return n, nil
}

// StoreCookies appends cookies for a product in one transaction.
func (s *SQLiteStore) StoreCookies(
	ctx context.Context,
	storeID, productID string,
	cookies []domain.Cookie,
) error {
	if len(cookies) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting cookie transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now()
	for _, c := range cookies {
		created := c.CreatedAt
		if created.IsZero() {
			created = now
		}
		if _, err := tx.ExecContext(ctx, sqliteInsertCookie,
			storeID, productID, c.Value, created.UnixMilli(),
		); err != nil {
			return fmt.Errorf("storing cookies for %s/%s: %w", storeID, productID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cookies: %w", err)
	}
	return nil
}

type sqliteCookieRow struct {
	Value     string `db:"value"`
	CreatedAt int64  `db:"created_at"`
}

// ListCookies returns the cookies of a product, oldest first.
func (s *SQLiteStore) ListCookies(
	ctx context.Context,
	storeID, productID string,
) ([]domain.Cookie, error) {
	var rows []sqliteCookieRow
	if err := s.db.SelectContext(ctx, &rows, sqliteListCookies, storeID, productID); err != nil {
		return nil, fmt.Errorf("querying cookies: %w", err)
	}

	cookies := make([]domain.Cookie, 0, len(rows))
	for _, r := range rows {
		cookies = append(cookies, domain.Cookie{
			Value:     r.Value,
			CreatedAt: time.UnixMilli(r.CreatedAt),
		})
	}
	return cookies, nil
}
