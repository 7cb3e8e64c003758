package notify

import (
	"context"
	"net/http"
	"time"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// WebhookNotifier posts every event as a JSON document to a generic
// endpoint, for integrations that do their own rendering.
type WebhookNotifier struct {
	url    string
	client *http.Client
	format *Formatter
	now    func() time.Time
}

// WebhookOption configures a WebhookNotifier.
type WebhookOption func(*WebhookNotifier)

// WithWebhookHTTPClient sets a custom HTTP client.
func WithWebhookHTTPClient(c *http.Client) WebhookOption {
	return func(n *WebhookNotifier) {
		n.client = c
	}
}

// NewWebhookNotifier creates a notifier posting to url.
func NewWebhookNotifier(url string, f *Formatter, opts ...WebhookOption) *WebhookNotifier {
	n := &WebhookNotifier{
		url:    url,
		client: http.DefaultClient,
		format: f,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// WebhookEvent is the body posted for each notification.
type WebhookEvent struct {
	Message

	SentAt    time.Time       `json:"sentAt"`
	ProductID string          `json:"productId,omitempty"`
	Price     *domain.Price   `json:"price,omitempty"`
	OldPrice  *float64        `json:"oldPrice,omitempty"`
	Cookies   []domain.Cookie `json:"cookies,omitempty"`
	Seconds   int             `json:"seconds,omitempty"`
}

func (n *WebhookNotifier) post(ctx context.Context, ev *WebhookEvent) error {
	ev.SentAt = n.now().UTC()
	return postJSON(ctx, n.client, "webhook", n.url, ev)
}

// NotifyStock posts a stock event and returns its plain-text form.
func (n *WebhookNotifier) NotifyStock(ctx context.Context, item *domain.Item, cookies int) (string, error) {
	msg := n.format.Stock(item, cookies)
	ev := &WebhookEvent{Message: msg, ProductID: item.ProductID()}
	if item != nil {
		ev.Price = item.Price
	}
	if err := n.post(ctx, ev); err != nil {
		return "", err
	}
	return msg.Text(), nil
}

// NotifyPriceChange posts a price change event.
func (n *WebhookNotifier) NotifyPriceChange(ctx context.Context, item *domain.Item, oldPrice float64) error {
	ev := &WebhookEvent{
		Message:   n.format.PriceChange(item, oldPrice),
		ProductID: item.ProductID(),
		OldPrice:  &oldPrice,
	}
	if item != nil {
		ev.Price = item.Price
	}
	return n.post(ctx, ev)
}

// NotifyAdmin posts an operator message.
func (n *WebhookNotifier) NotifyAdmin(ctx context.Context, text string) error {
	return n.post(ctx, &WebhookEvent{Message: n.format.Admin(text)})
}

// NotifyRateLimit posts a rate-limit event.
func (n *WebhookNotifier) NotifyRateLimit(ctx context.Context, seconds int) error {
	return n.post(ctx, &WebhookEvent{Message: n.format.RateLimit(seconds), Seconds: seconds})
}

// NotifyCookies posts the cookies created for a product.
func (n *WebhookNotifier) NotifyCookies(ctx context.Context, product *domain.Product, cookies []domain.Cookie) error {
	ev := &WebhookEvent{Message: n.format.Cookies(product, cookies), Cookies: cookies}
	if product != nil {
		ev.ProductID = product.ID
	}
	return n.post(ctx, ev)
}
