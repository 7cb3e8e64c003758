package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// ErrNoBasketCookie is returned when the storefront accepted the basket
// mutation but set no session cookie.
var ErrNoBasketCookie = errors.New("basket response carried no session cookie")

const (
	defaultBasketCookieName = "r"
	defaultBasketQuantity   = 1
)

// CookieCreator opens a fresh anonymous basket holding a product and
// returns the session cookie that identifies it.
type CookieCreator interface {
	CreateCookie(ctx context.Context, productID string) (domain.Cookie, error)
}

// BasketClient implements CookieCreator with an add-to-basket mutation sent
// without the operator's session.
type BasketClient struct {
	client     *Client
	op         Operation
	cookieName string
	quantity   int
	nowFunc    func() time.Time
}

// BasketOption configures the BasketClient.
type BasketOption func(*BasketClient)

// WithCookieName sets the name of the Set-Cookie that identifies a basket.
func WithCookieName(name string) BasketOption {
	return func(b *BasketClient) {
		b.cookieName = name
	}
}

// WithQuantity sets how many units are added.
func WithQuantity(n int) BasketOption {
	return func(b *BasketClient) {
		b.quantity = n
	}
}

// WithBasketNowFunc overrides the time function for testing.
func WithBasketNowFunc(f func() time.Time) BasketOption {
	return func(b *BasketClient) {
		b.nowFunc = f
	}
}

// NewBasketClient creates a BasketClient sending op through c.
func NewBasketClient(c *Client, op Operation, opts ...BasketOption) *BasketClient {
	b := &BasketClient{
		client:     c,
		op:         op,
		cookieName: defaultBasketCookieName,
		quantity:   defaultBasketQuantity,
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateCookie implements CookieCreator.
func (b *BasketClient) CreateCookie(ctx context.Context, productID string) (domain.Cookie, error) {
	vars := map[string]any{
		"items": []map[string]any{
			{"productId": productID, "quantity": b.quantity},
		},
	}

	resp, err := b.client.Mutate(ctx, b.op, vars, false)
	if err != nil {
		return domain.Cookie{}, fmt.Errorf("adding %s to basket: %w", productID, err)
	}

	for _, c := range resp.Cookies {
		if c.Name == b.cookieName && c.Value != "" {
			return domain.Cookie{Value: c.Value, CreatedAt: b.nowFunc()}, nil
		}
	}
	return domain.Cookie{}, fmt.Errorf("adding %s to basket: %w", productID, ErrNoBasketCookie)
}
