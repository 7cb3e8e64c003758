package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/stock-tracker/internal/metrics"
	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

type namedNotifier struct {
	name string
	n    Notifier
}

// Multi fans every event out to all registered notifiers. A failing
// notifier is logged and counted and never stops the others; the joined
// failures are returned for callers that want them.
type Multi struct {
	notifiers []namedNotifier
	log       *slog.Logger
}

// NewMulti creates an empty fan-out.
func NewMulti(log *slog.Logger) *Multi {
	if log == nil {
		log = slog.Default()
	}
	return &Multi{log: log}
}

// Register adds a notifier under name, used in logs and metric labels.
func (m *Multi) Register(name string, n Notifier) {
	m.notifiers = append(m.notifiers, namedNotifier{name: name, n: n})
}

// Len returns the number of registered notifiers.
func (m *Multi) Len() int {
	return len(m.notifiers)
}

func (m *Multi) each(ctx context.Context, kind string, fn func(Notifier) error) error {
	var errs []error
	for _, nn := range m.notifiers {
		if err := fn(nn.n); err != nil {
			m.log.WarnContext(ctx, "notification failed",
				"notifier", nn.name,
				"kind", kind,
				"error", err,
			)
			metrics.NotificationFailuresTotal.WithLabelValues(nn.name, kind).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", nn.name, err))
			continue
		}
		metrics.NotificationsTotal.WithLabelValues(nn.name, kind).Inc()
	}
	return errors.Join(errs...)
}

// NotifyStock returns the message of the first notifier that produced one.
func (m *Multi) NotifyStock(ctx context.Context, item *domain.Item, cookies int) (string, error) {
	var first string
	err := m.each(ctx, KindStock, func(n Notifier) error {
		msg, err := n.NotifyStock(ctx, item, cookies)
		if first == "" {
			first = msg
		}
		return err
	})
	return first, err
}

// NotifyPriceChange fans out a price change.
func (m *Multi) NotifyPriceChange(ctx context.Context, item *domain.Item, oldPrice float64) error {
	return m.each(ctx, KindPriceChange, func(n Notifier) error {
		return n.NotifyPriceChange(ctx, item, oldPrice)
	})
}

// NotifyAdmin fans out an operator message.
func (m *Multi) NotifyAdmin(ctx context.Context, msg string) error {
	return m.each(ctx, KindAdmin, func(n Notifier) error {
		return n.NotifyAdmin(ctx, msg)
	})
}

// NotifyRateLimit fans out a rate-limit notice.
func (m *Multi) NotifyRateLimit(ctx context.Context, seconds int) error {
	return m.each(ctx, KindRateLimit, func(n Notifier) error {
		return n.NotifyRateLimit(ctx, seconds)
	})
}

// NotifyCookies fans out freshly created basket cookies.
func (m *Multi) NotifyCookies(ctx context.Context, product *domain.Product, cookies []domain.Cookie) error {
	return m.each(ctx, KindCookies, func(n Notifier) error {
		return n.NotifyCookies(ctx, product, cookies)
	})
}
