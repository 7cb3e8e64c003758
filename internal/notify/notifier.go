// Package notify defines the notification interface and its Discord,
// Telegram, webhook and log implementations.
package notify

import (
	"context"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// Notification kinds, used as the "kind" metric label.
const (
	KindStock       = "stock"
	KindPriceChange = "price_change"
	KindAdmin       = "admin"
	KindRateLimit   = "rate_limit"
	KindCookies     = "cookies"
)

// Notifier delivers the events produced by one storefront's polling cycle.
type Notifier interface {
	// NotifyStock announces an available item and returns the rendered
	// message text.
	NotifyStock(ctx context.Context, item *domain.Item, cookies int) (string, error)
	NotifyPriceChange(ctx context.Context, item *domain.Item, oldPrice float64) error
	NotifyAdmin(ctx context.Context, msg string) error
	NotifyRateLimit(ctx context.Context, seconds int) error
	NotifyCookies(ctx context.Context, product *domain.Product, cookies []domain.Cookie) error
}
