package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

func newSQLite(t *testing.T) Store {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func backends(t *testing.T) map[string]func(*testing.T) Store {
	t.Helper()
	return map[string]func(*testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": newSQLite,
	}
}

func TestStore_Prices(t *testing.T) {
	t.Parallel()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := open(t)
			ctx := context.Background()

			_, ok, err := s.LastKnownPrice(ctx, "mmde", "1")
			require.NoError(t, err)
			assert.False(t, ok, "unknown product has no price")

			require.NoError(t, s.StorePrice(ctx, "mmde", "1", 499.99))
			price, ok, err := s.LastKnownPrice(ctx, "mmde", "1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.InDelta(t, 499.99, price, 1e-9)

			require.NoError(t, s.StorePrice(ctx, "mmde", "1", 449.00))
			price, _, err = s.LastKnownPrice(ctx, "mmde", "1")
			require.NoError(t, err)
			assert.InDelta(t, 449.00, price, 1e-9, "store overwrites")

			_, ok, err = s.LastKnownPrice(ctx, "saturn", "1")
			require.NoError(t, err)
			assert.False(t, ok, "prices are keyed by store")
		})
	}
}

func TestStore_Cookies(t *testing.T) {
	t.Parallel()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := open(t)
			ctx := context.Background()

			n, err := s.CookiesAmount(ctx, "mmde", "1")
			require.NoError(t, err)
			assert.Zero(t, n)

			first := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
			require.NoError(t, s.StoreCookies(ctx, "mmde", "1", []domain.Cookie{
				{Value: "a", CreatedAt: first},
				{Value: "b", CreatedAt: first.Add(time.Minute)},
			}))
			require.NoError(t, s.StoreCookies(ctx, "mmde", "1", []domain.Cookie{
				{Value: "c"},
			}))
			require.NoError(t, s.StoreCookies(ctx, "mmde", "1", nil))

			n, err = s.CookiesAmount(ctx, "mmde", "1")
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			n, err = s.CookiesAmount(ctx, "mmde", "2")
			require.NoError(t, err)
			assert.Zero(t, n, "cookies are keyed by product")

			cookies, err := s.ListCookies(ctx, "mmde", "1")
			require.NoError(t, err)
			require.Len(t, cookies, 3)
			assert.Equal(t, "a", cookies[0].Value)
			assert.Equal(t, first.UnixMilli(), cookies[0].CreatedAt.UnixMilli())
			assert.Equal(t, "b", cookies[1].Value)
			assert.Equal(t, "c", cookies[2].Value)
			assert.False(t, cookies[2].CreatedAt.IsZero(), "zero creation time is stamped")
		})
	}
}

func TestStore_PingAndMigrateTwice(t *testing.T) {
	t.Parallel()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			s := open(t)
			ctx := context.Background()
			require.NoError(t, s.Ping(ctx))
			require.NoError(t, s.Migrate(ctx), "migrations are idempotent")
		})
	}
}

func TestMigrationFiles_Ordered(t *testing.T) {
	t.Parallel()

	for _, dialect := range []string{DriverPostgres, DriverSQLite} {
		files, err := migrationFiles(dialect)
		require.NoError(t, err)
		require.NotEmpty(t, files)
		for i := 1; i < len(files); i++ {
			assert.Less(t, files[i-1].version, files[i].version)
		}
		assert.Contains(t, files[0].sql, "basket_cookies")
	}

	_, err := migrationFiles("mysql")
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	s, err := Open(ctx, DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, "oracle", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}

func TestMemoryStore_ListCookiesReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.StoreCookies(ctx, "mmde", "1", []domain.Cookie{{Value: "a"}}))

	got, err := s.ListCookies(ctx, "mmde", "1")
	require.NoError(t, err)
	got[0].Value = "mutated"

	again, err := s.ListCookies(ctx, "mmde", "1")
	require.NoError(t, err)
	assert.Equal(t, "a", again[0].Value)
}
