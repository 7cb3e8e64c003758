package notify

import (
	"context"
	"net/http"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
	format     *Formatter
	username   string
}

// NewDiscordNotifier creates a new DiscordNotifier rendering with f.
func NewDiscordNotifier(webhookURL string, f *Formatter, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     http.DefaultClient,
		format:     f,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// WithUsername overrides the webhook's display name.
func WithUsername(name string) DiscordOption {
	return func(d *DiscordNotifier) {
		d.username = name
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Thumbnail   *discordThumbnail   `json:"thumbnail,omitempty"`
	Footer      *discordFooter      `json:"footer,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordThumbnail struct {
	URL string `json:"url"`
}

type discordFooter struct {
	Text string `json:"text"`
}

// NotifyStock sends a stock embed and returns its plain-text form.
func (d *DiscordNotifier) NotifyStock(ctx context.Context, item *domain.Item, cookies int) (string, error) {
	msg := d.format.Stock(item, cookies)
	if err := d.send(ctx, &msg); err != nil {
		return "", err
	}
	return msg.Text(), nil
}

// NotifyPriceChange sends a price change embed.
func (d *DiscordNotifier) NotifyPriceChange(ctx context.Context, item *domain.Item, oldPrice float64) error {
	msg := d.format.PriceChange(item, oldPrice)
	return d.send(ctx, &msg)
}

// NotifyAdmin sends an operator message.
func (d *DiscordNotifier) NotifyAdmin(ctx context.Context, text string) error {
	msg := d.format.Admin(text)
	return d.send(ctx, &msg)
}

// NotifyRateLimit sends a rate-limit notice.
func (d *DiscordNotifier) NotifyRateLimit(ctx context.Context, seconds int) error {
	msg := d.format.RateLimit(seconds)
	return d.send(ctx, &msg)
}

// NotifyCookies sends the cookies created for a product.
func (d *DiscordNotifier) NotifyCookies(ctx context.Context, product *domain.Product, cookies []domain.Cookie) error {
	msg := d.format.Cookies(product, cookies)
	return d.send(ctx, &msg)
}

func buildEmbed(msg *Message) discordEmbed {
	embed := discordEmbed{
		Title: msg.Title,
		URL:   msg.URL,
		Color: msg.Color,
	}

	for _, f := range msg.Fields {
		embed.Fields = append(embed.Fields, discordEmbedField(f))
	}

	if msg.ImageURL != "" {
		embed.Thumbnail = &discordThumbnail{URL: msg.ImageURL}
	}
	if msg.Store != "" {
		embed.Footer = &discordFooter{Text: msg.Store}
	}

	return embed
}

func (d *DiscordNotifier) send(ctx context.Context, msg *Message) error {
	payload := discordWebhookPayload{
		Username: d.username,
		Embeds:   []discordEmbed{buildEmbed(msg)},
	}
	return postJSON(ctx, d.client, "discord", d.webhookURL, payload)
}
