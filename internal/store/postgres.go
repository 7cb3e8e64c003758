package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if !strings.Contains(connString, "pool_max_conns") {
		cfg.MaxConns = defaultPoolSize
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// LastKnownPrice returns the stored price of a product. ok is false when
// no price was ever stored.
func (s *PostgresStore) LastKnownPrice(
	ctx context.Context,
	storeID, productID string,
) (float64, bool, error) {
	var price float64
	err := s.pool.QueryRow(ctx, queryGetPrice, pgx.NamedArgs{
		"store_id":   storeID,
		"product_id": productID,
	}).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("getting price for %s/%s: %w", storeID, productID, err)
	}
	return price, true, nil
}

// StorePrice upserts the last known price of a product.
func (s *PostgresStore) StorePrice(ctx context.Context, storeID, productID string, price float64) error {
	_, err := s.pool.Exec(ctx, queryUpsertPrice, pgx.NamedArgs{
		"store_id":   storeID,
		"product_id": productID,
		"price":      price,
	})
	if err != nil {
		return fmt.Errorf("storing price for %s/%s: %w", storeID, productID, err)
	}
	return nil
}

// CookiesAmount counts the basket cookies stored for a product.
func (s *PostgresStore) CookiesAmount(ctx context.Context, storeID, productID string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryCountCookies, storeID, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cookies for %s/%s: %w", storeID, productID, err)
	}
	return n, nil
}

// StoreCookies appends cookies for a product in a single batch.
func (s *PostgresStore) StoreCookies(
	ctx context.Context,
	storeID, productID string,
	cookies []domain.Cookie,
) error {
	if len(cookies) == 0 {
		return nil
	}

	now := time.Now()
	batch := &pgx.Batch{}
	for _, c := range cookies {
		created := c.CreatedAt
		if created.IsZero() {
			created = now
		}
		batch.Queue(queryInsertCookie, storeID, productID, c.Value, created)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("storing cookies for %s/%s: %w", storeID, productID, err)
	}
	return nil
}

// ListCookies returns the cookies of a product, oldest first.
func (s *PostgresStore) ListCookies(
	ctx context.Context,
	storeID, productID string,
) ([]domain.Cookie, error) {
	rows, err := s.pool.Query(ctx, queryListCookies, storeID, productID)
	if err != nil {
		return nil, fmt.Errorf("querying cookies: %w", err)
	}
	defer rows.Close()

	var cookies []domain.Cookie
	for rows.Next() {
		var c domain.Cookie
		if err := rows.Scan(&c.Value, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning cookie: %w", err)
		}
		cookies = append(cookies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cookies: %w", err)
	}
	return cookies, nil
}
