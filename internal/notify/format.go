package notify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/donaldgifford/stock-tracker/internal/availability"
	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

const (
	colorGreen  = 0x2ECC71 // buyable
	colorYellow = 0xF1C40F // available, not buyable
	colorOrange = 0xE67E22 // price change
	colorRed    = 0xE74C3C // admin, rate limit
	colorBlue   = 0x3498DB // cookies
)

// maxCookieFields caps the cookies listed in one message.
const maxCookieFields = 10

// Field is one labelled value of a message.
type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Message is the transport-neutral rendering of an event.
type Message struct {
	Kind     string  `json:"kind"`
	Store    string  `json:"store"`
	Title    string  `json:"title"`
	URL      string  `json:"url,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Color    int     `json:"-"`
	Fields   []Field `json:"fields,omitempty"`
}

// Text renders the message as plain lines.
func (m *Message) Text() string {
	var b strings.Builder
	b.WriteString(m.Title)
	for _, f := range m.Fields {
		fmt.Fprintf(&b, "\n%s: %s", f.Name, f.Value)
	}
	if m.URL != "" {
		b.WriteString("\n" + m.URL)
	}
	return b.String()
}

// Formatter renders events for one storefront. Every notifier of that
// storefront shares it so links and labels stay consistent.
type Formatter struct {
	StoreName  string
	BaseURL    string
	URLOptions availability.URLOptions
	Classifier availability.Classifier
	// ImageBaseURL is prefixed to product.TitleImageID; empty disables
	// thumbnails.
	ImageBaseURL string
}

func (f *Formatter) imageURL(p *domain.Product) string {
	if f.ImageBaseURL == "" || p == nil || p.TitleImageID == "" {
		return ""
	}
	return f.ImageBaseURL + p.TitleImageID
}

func title(item *domain.Item) string {
	if item.Product == nil {
		return "unknown product"
	}
	return item.Product.DisplayTitle()
}

// Stock renders a stock notification.
func (f *Formatter) Stock(item *domain.Item, cookies int) Message {
	if item == nil {
		item = &domain.Item{}
	}
	buyable := f.Classifier.IsBuyable(item)

	status, color := "available, not buyable", colorYellow
	if buyable {
		status, color = "buyable", colorGreen
	}

	fields := []Field{
		{Name: "Status", Value: status, Inline: true},
		{Name: "Price", Value: item.Price.String(), Inline: true},
		{Name: "Availability", Value: describeAvailability(item.Availability), Inline: true},
	}
	if d := describeDelivery(item.Availability); d != "" {
		fields = append(fields, Field{Name: "Delivery", Value: d, Inline: true})
	}
	if f.Classifier.CanBeAddedToBasket(item) {
		fields = append(fields, Field{Name: "Basket cookies", Value: strconv.Itoa(cookies), Inline: true})
	}

	return Message{
		Kind:     KindStock,
		Store:    f.StoreName,
		Title:    fmt.Sprintf("In stock: %s", title(item)),
		URL:      availability.ProductURL(item, f.BaseURL, f.URLOptions),
		ImageURL: f.imageURL(item.Product),
		Color:    color,
		Fields:   fields,
	}
}

// PriceChange renders a price change from oldPrice to the item's price.
func (f *Formatter) PriceChange(item *domain.Item, oldPrice float64) Message {
	if item == nil {
		item = &domain.Item{}
	}
	fields := []Field{
		{Name: "Old price", Value: fmt.Sprintf("%.2f", oldPrice), Inline: true},
		{Name: "New price", Value: item.Price.String(), Inline: true},
	}
	if item.Price != nil && oldPrice != 0 {
		pct := (item.Price.Amount - oldPrice) / oldPrice * 100
		fields = append(fields, Field{Name: "Change", Value: fmt.Sprintf("%+.1f%%", pct), Inline: true})
	}

	return Message{
		Kind:     KindPriceChange,
		Store:    f.StoreName,
		Title:    fmt.Sprintf("Price change: %s", title(item)),
		URL:      availability.ProductURL(item, f.BaseURL, f.URLOptions),
		ImageURL: f.imageURL(item.Product),
		Color:    colorOrange,
		Fields:   fields,
	}
}

// Admin renders an operator message.
func (f *Formatter) Admin(msg string) Message {
	return Message{
		Kind:  KindAdmin,
		Store: f.StoreName,
		Title: fmt.Sprintf("[%s] %s", f.StoreName, msg),
		Color: colorRed,
	}
}

// RateLimit renders a rate-limit notice.
func (f *Formatter) RateLimit(seconds int) Message {
	return Message{
		Kind:  KindRateLimit,
		Store: f.StoreName,
		Title: fmt.Sprintf("[%s] Rate limited, retry in %d seconds", f.StoreName, seconds),
		Color: colorRed,
	}
}

// Cookies renders freshly created basket cookies for a product.
func (f *Formatter) Cookies(product *domain.Product, cookies []domain.Cookie) Message {
	item := &domain.Item{Product: product}

	name := "unknown product"
	if product != nil {
		name = product.DisplayTitle()
	}

	fields := make([]Field, 0, min(len(cookies), maxCookieFields)+1)
	for i, c := range cookies {
		if i == maxCookieFields {
			fields = append(fields, Field{
				Name:  "More",
				Value: fmt.Sprintf("%d more not shown", len(cookies)-maxCookieFields),
			})
			break
		}
		fields = append(fields, Field{Name: fmt.Sprintf("Cookie %d", i+1), Value: c.Value})
	}

	return Message{
		Kind:     KindCookies,
		Store:    f.StoreName,
		Title:    fmt.Sprintf("%d basket cookies for %s", len(cookies), name),
		URL:      availability.ProductURL(item, f.BaseURL, f.URLOptions),
		ImageURL: f.imageURL(item.Product),
		Color:    colorBlue,
		Fields:   fields,
	}
}

func describeAvailability(a *domain.Availability) string {
	if a == nil {
		return string(domain.AvailabilityNone)
	}
	t := a.Type.Normalize()
	if t == domain.AvailabilityNone {
		return string(t)
	}
	return fmt.Sprintf("%s (%d)", t, a.Quantity)
}

func describeDelivery(a *domain.Availability) string {
	if a == nil || a.EarliestDelivery == nil {
		return ""
	}
	const layout = "2006-01-02"
	earliest := a.EarliestDelivery.Format(layout)
	if a.LatestDelivery == nil || a.LatestDelivery.Format(layout) == earliest {
		return earliest
	}
	return earliest + " to " + a.LatestDelivery.Format(layout)
}
