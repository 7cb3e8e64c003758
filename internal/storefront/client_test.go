package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

const wishlistBody = `{
  "data": {
    "wishlistItems": {
      "items": [
        {
          "product": {"id": "2794047", "title": "PlayStation 5 Pro", "url": "/de/product/_ps5-2794047.html", "onlineStatus": true},
          "price": {"price": 799.99, "currency": "EUR"},
          "availability": {"delivery": {"availabilityType": "IN_WAREHOUSE", "quantity": 3, "earliest": "2026-10-15T00:00:00Z", "latest": "2026-10-17T00:00:00Z"}}
        },
        {
          "product": {"id": "2794048", "onlineStatus": false},
          "price": null
        }
      ],
      "paging": {"pageCount": 2}
    }
  }
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func wishlistQuery() Query {
	return Query{
		Name:      "wishlist",
		Kind:      QueryWishlist,
		Operation: Operation{Name: "GetUser", Hash: "abc123"},
		Variables: map[string]any{"limit": 24},
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]ClientOption{
		WithLogger(quietLogger()),
		WithRetry(2, time.Millisecond, 2*time.Millisecond),
	}, opts...)
	return NewClient("mmde", srv.URL+"/api/v1/graphql", opts...)
}

func TestClient_FetchSendsPersistedQuery(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/graphql", r.URL.Path)
		assert.Equal(t, "GetUser", r.URL.Query().Get("operationName"))
		assert.Equal(t, "GetUser", r.Header.Get("X-Operation"))
		assert.Equal(t, "session=abc", r.Header.Get("Cookie"))
		assert.Equal(t, "de-DE", r.Header.Get("Accept-Language"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var vars map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("variables")), &vars))
		assert.InDelta(t, 2, vars["page"], 0)
		assert.InDelta(t, 24, vars["limit"], 0)

		var ext extensions
		require.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("extensions")), &ext))
		assert.Equal(t, 1, ext.PersistedQuery.Version)
		assert.Equal(t, "abc123", ext.PersistedQuery.SHA256Hash)

		_, _ = w.Write([]byte(wishlistBody))
	}, WithSessionCookie("session=abc"), WithHeader("Accept-Language", "de-DE"))

	q := wishlistQuery()
	page, err := c.Fetch(context.Background(), q, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)

	first := page.Items[0]
	require.NotNil(t, first.Product)
	assert.Equal(t, "2794047", first.Product.ID)
	assert.Equal(t, "PlayStation 5 Pro", first.Product.DisplayTitle())
	assert.True(t, first.Product.OnlineStatus)
	require.NotNil(t, first.Price)
	assert.InDelta(t, 799.99, first.Price.Amount, 0.001)
	require.NotNil(t, first.Availability)
	assert.Equal(t, domain.AvailabilityInWarehouse, first.Availability.Type)
	assert.Equal(t, 3, first.Availability.Quantity)
	require.NotNil(t, first.Availability.EarliestDelivery)

	second := page.Items[1]
	assert.Equal(t, "2794048", second.ProductID())
	assert.Nil(t, second.Price)
	assert.Nil(t, second.Availability)

	_, hasPage := q.Variables["page"]
	assert.False(t, hasPage, "query variables are not mutated")
}

func TestClient_RateLimited(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(0, 1, WithRateLimiterNowFunc(func() time.Time { return now }))

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}, WithRateLimiter(limiter))

	_, err := c.Fetch(context.Background(), wishlistQuery(), 1)
	require.Error(t, err)

	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 7, rl.Seconds())
	assert.Equal(t, int32(1), hits.Load(), "429 is not retried")
	assert.Equal(t, 7*time.Second, limiter.Remaining())

	_, err = c.Fetch(context.Background(), wishlistQuery(), 1)
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, int32(1), hits.Load(), "blocked requests never reach the server")
}

func TestClient_Unauthorized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "401", status: http.StatusUnauthorized},
		{name: "403", status: http.StatusForbidden},
		{
			name:   "graphql unauthenticated",
			status: http.StatusOK,
			body:   `{"data":null,"errors":[{"message":"login required","extensions":{"code":"UNAUTHENTICATED"}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var hits atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Fetch(context.Background(), wishlistQuery(), 1)
			require.ErrorIs(t, err, ErrUnauthorized)
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

func TestClient_GraphQLErrors(t *testing.T) {
	t.Parallel()

	t.Run("errors without data fail", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"PersistedQueryNotFound"}]}`))
		})
		_, err := c.Fetch(context.Background(), wishlistQuery(), 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PersistedQueryNotFound")
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("partial data passes", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"wishlistItems":{"items":[],"paging":{"pageCount":1}}},"errors":[{"message":"price service slow"}]}`))
		})
		page, err := c.Fetch(context.Background(), wishlistQuery(), 1)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("invalid json fails", func(t *testing.T) {
		t.Parallel()
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		})
		_, err := c.Fetch(context.Background(), wishlistQuery(), 1)
		require.Error(t, err)
	})
}

func TestClient_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(wishlistBody))
	})

	page, err := c.Fetch(context.Background(), wishlistQuery(), 1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_ServerErrorAfterRetries(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down"))
	})

	_, err := c.Fetch(context.Background(), wishlistQuery(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, int32(3), hits.Load(), "one attempt plus two retries")
}

func TestQuery_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, wishlistQuery().Validate())

	q := wishlistQuery()
	q.Operation.Hash = ""
	require.Error(t, q.Validate())

	q = wishlistQuery()
	q.Kind = "bogus"
	require.Error(t, q.Validate())

	q.ItemsPath = "data.custom.items"
	require.NoError(t, q.Validate())
}

func TestExtractItems_Malformed(t *testing.T) {
	t.Parallel()

	body := []byte(`{"data":{"searchV4":{"products":[
		{"product": {"id": 12345}},
		{"product": {"id": "1"}, "price": {"price": "cheap"}, "availability": {"delivery": {"quantity": "many"}}},
		{"availability": {"delivery": {"availabilityType": "IN_STORE"}}}
	]}}}`)

	items := ExtractItems(body, "data.searchV4.products", quietLogger())
	require.Len(t, items, 3)

	assert.Nil(t, items[0].Product, "numeric id is rejected")
	assert.Equal(t, "1", items[1].ProductID())
	assert.Nil(t, items[1].Price)
	assert.Nil(t, items[1].Availability)
	assert.Nil(t, items[2].Product)
	require.NotNil(t, items[2].Availability)
	assert.Equal(t, domain.AvailabilityInStore, items[2].Availability.Type)

	assert.Empty(t, ExtractItems(body, "data.missing", nil))
}

func TestExtractItems_PriceWithoutAmount(t *testing.T) {
	t.Parallel()

	body := []byte(`{"products":[
		{"product": {"id": "1"}, "price": {"price": null, "currency": "EUR"}},
		{"product": {"id": "2"}, "price": {"currency": "EUR"}},
		{"product": {"id": "3"}, "price": {"price": 0, "currency": "EUR"}}
	]}`)

	items := ExtractItems(body, "products", quietLogger())
	require.Len(t, items, 3)

	assert.Nil(t, items[0].Price, "null amount")
	assert.Nil(t, items[1].Price, "missing amount")
	require.NotNil(t, items[2].Price, "zero is a real amount")
	assert.True(t, items[2].Price.Defined())
	assert.InDelta(t, 0, items[2].Price.Amount, 0)
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "empty", value: "", want: defaultRetryAfter},
		{name: "seconds", value: "30", want: 30 * time.Second},
		{name: "http date", value: now.Add(90 * time.Second).Format(http.TimeFormat), want: 90 * time.Second},
		{name: "date in past", value: now.Add(-time.Minute).Format(http.TimeFormat), want: 0},
		{name: "garbage", value: "soon", want: defaultRetryAfter},
		{name: "negative", value: "-5", want: defaultRetryAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseRetryAfter(tt.value, now))
		})
	}
}

func TestRateLimitError_Seconds(t *testing.T) {
	t.Parallel()

	err := error(&RateLimitError{RetryAfter: 1500 * time.Millisecond})
	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 2, rl.Seconds())
	assert.Contains(t, err.Error(), "1.5s")
}

func TestRateLimiter_Block(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	r := NewRateLimiter(0, 0, WithRateLimiterNowFunc(func() time.Time { return now }))

	require.NoError(t, r.Wait(context.Background()))

	r.Block(time.Minute)
	r.Block(10 * time.Second)
	assert.Equal(t, time.Minute, r.Remaining(), "a shorter block never shortens an existing one")

	var rl *RateLimitError
	require.ErrorAs(t, r.Wait(context.Background()), &rl)
	assert.Equal(t, 60, rl.Seconds())

	now = now.Add(2 * time.Minute)
	assert.Zero(t, r.Remaining())
	require.NoError(t, r.Wait(context.Background()))
}

func TestRateLimiter_WaitHonorsContext(t *testing.T) {
	t.Parallel()

	r := NewRateLimiter(0.001, 1)
	require.NoError(t, r.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, r.Wait(ctx))
}
