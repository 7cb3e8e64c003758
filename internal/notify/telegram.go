package notify

import (
	"context"
	"html"
	"net/http"
	"strings"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

const defaultTelegramAPI = "https://api.telegram.org"

// TelegramNotifier implements Notifier through the Bot API sendMessage call.
type TelegramNotifier struct {
	apiURL string
	token  string
	chatID string
	client *http.Client
	format *Formatter
}

// TelegramOption configures a TelegramNotifier.
type TelegramOption func(*TelegramNotifier)

// WithTelegramHTTPClient sets a custom HTTP client.
func WithTelegramHTTPClient(c *http.Client) TelegramOption {
	return func(n *TelegramNotifier) {
		n.client = c
	}
}

// WithTelegramAPIURL points the notifier at another Bot API host.
func WithTelegramAPIURL(u string) TelegramOption {
	return func(n *TelegramNotifier) {
		n.apiURL = strings.TrimRight(u, "/")
	}
}

// NewTelegramNotifier creates a notifier posting to chatID as the bot
// identified by token.
func NewTelegramNotifier(token, chatID string, f *Formatter, opts ...TelegramOption) *TelegramNotifier {
	n := &TelegramNotifier{
		apiURL: defaultTelegramAPI,
		token:  token,
		chatID: chatID,
		client: http.DefaultClient,
		format: f,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type telegramSendMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// renderHTML formats msg in Telegram's HTML parse mode.
func renderHTML(msg *Message) string {
	var b strings.Builder
	b.WriteString("<b>" + html.EscapeString(msg.Title) + "</b>")
	for _, f := range msg.Fields {
		b.WriteString("\n" + html.EscapeString(f.Name) + ": <code>" + html.EscapeString(f.Value) + "</code>")
	}
	if msg.URL != "" {
		b.WriteString("\n<a href=\"" + html.EscapeString(msg.URL) + "\">Open product</a>")
	}
	return b.String()
}

func (n *TelegramNotifier) send(ctx context.Context, msg *Message) error {
	payload := telegramSendMessage{
		ChatID:    n.chatID,
		Text:      renderHTML(msg),
		ParseMode: "HTML",
	}
	return postJSON(ctx, n.client, "telegram", n.apiURL+"/bot"+n.token+"/sendMessage", payload)
}

// NotifyStock sends a stock message and returns its plain-text form.
func (n *TelegramNotifier) NotifyStock(ctx context.Context, item *domain.Item, cookies int) (string, error) {
	msg := n.format.Stock(item, cookies)
	if err := n.send(ctx, &msg); err != nil {
		return "", err
	}
	return msg.Text(), nil
}

// NotifyPriceChange sends a price change message.
func (n *TelegramNotifier) NotifyPriceChange(ctx context.Context, item *domain.Item, oldPrice float64) error {
	msg := n.format.PriceChange(item, oldPrice)
	return n.send(ctx, &msg)
}

// NotifyAdmin sends an operator message.
func (n *TelegramNotifier) NotifyAdmin(ctx context.Context, text string) error {
	msg := n.format.Admin(text)
	return n.send(ctx, &msg)
}

// NotifyRateLimit sends a rate-limit notice.
func (n *TelegramNotifier) NotifyRateLimit(ctx context.Context, seconds int) error {
	msg := n.format.RateLimit(seconds)
	return n.send(ctx, &msg)
}

// NotifyCookies sends the cookies created for a product.
func (n *TelegramNotifier) NotifyCookies(ctx context.Context, product *domain.Product, cookies []domain.Cookie) error {
	msg := n.format.Cookies(product, cookies)
	return n.send(ctx, &msg)
}
