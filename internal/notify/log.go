package notify

import (
	"context"
	"log/slog"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// LogNotifier implements Notifier by writing each event to the logger. It is
// used when no chat backend is configured, and for `check` dry runs.
type LogNotifier struct {
	log    *slog.Logger
	format *Formatter
}

// NewLogNotifier creates a notifier that logs events at info level.
func NewLogNotifier(log *slog.Logger, f *Formatter) *LogNotifier {
	return &LogNotifier{log: log, format: f}
}

func (n *LogNotifier) emit(ctx context.Context, msg *Message, extra ...any) {
	args := []any{"kind", msg.Kind, "store", msg.Store, "title", msg.Title}
	if msg.URL != "" {
		args = append(args, "url", msg.URL)
	}
	n.log.InfoContext(ctx, "notification", append(args, extra...)...)
}

// NotifyStock logs a stock event.
func (n *LogNotifier) NotifyStock(ctx context.Context, item *domain.Item, cookies int) (string, error) {
	msg := n.format.Stock(item, cookies)
	n.emit(ctx, &msg, "product_id", item.ProductID(), "cookies", cookies)
	return msg.Text(), nil
}

// NotifyPriceChange logs a price change.
func (n *LogNotifier) NotifyPriceChange(ctx context.Context, item *domain.Item, oldPrice float64) error {
	msg := n.format.PriceChange(item, oldPrice)
	n.emit(ctx, &msg, "product_id", item.ProductID(), "old_price", oldPrice)
	return nil
}

// NotifyAdmin logs an operator message at warn level.
func (n *LogNotifier) NotifyAdmin(ctx context.Context, text string) error {
	n.log.WarnContext(ctx, "admin notification", "store", n.format.StoreName, "message", text)
	return nil
}

// NotifyRateLimit logs a rate-limit notice.
func (n *LogNotifier) NotifyRateLimit(ctx context.Context, seconds int) error {
	msg := n.format.RateLimit(seconds)
	n.emit(ctx, &msg, "seconds", seconds)
	return nil
}

// NotifyCookies logs how many cookies were created; values are not logged.
func (n *LogNotifier) NotifyCookies(ctx context.Context, product *domain.Product, cookies []domain.Cookie) error {
	msg := n.format.Cookies(product, cookies)
	id := ""
	if product != nil {
		id = product.ID
	}
	n.emit(ctx, &msg, "product_id", id, "count", len(cookies))
	return nil
}
