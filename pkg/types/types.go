// Package domain defines the core business types for the stock tracker.
package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// AvailabilityType describes how a product can currently be delivered.
type AvailabilityType string

// Availability type constants.
const (
	AvailabilityInWarehouse AvailabilityType = "IN_WAREHOUSE"
	AvailabilityInStore     AvailabilityType = "IN_STORE"
	AvailabilityLongTail    AvailabilityType = "LONG_TAIL"
	AvailabilityNone        AvailabilityType = "NONE"
)

// Normalize maps unknown or empty values to AvailabilityNone.
func (t AvailabilityType) Normalize() AvailabilityType {
	switch t {
	case AvailabilityInWarehouse, AvailabilityInStore, AvailabilityLongTail:
		return t
	default:
		return AvailabilityNone
	}
}

// Product is the identity record of a storefront article.
type Product struct {
	ID           string  `json:"id"`
	Title        *string `json:"title,omitempty"`
	URL          string  `json:"url"`
	OnlineStatus bool    `json:"onlineStatus"`
	TitleImageID string  `json:"titleImageId,omitempty"`
	InAssortment *bool   `json:"inAssortment,omitempty"`
}

// DisplayTitle returns the title, or the id when the storefront sent none.
func (p *Product) DisplayTitle() string {
	if p.Title != nil && *p.Title != "" {
		return *p.Title
	}
	return p.ID
}

// Availability is the delivery descriptor observed on one poll.
type Availability struct {
	Type             AvailabilityType `json:"availabilityType"`
	Quantity         int              `json:"quantity"`
	EarliestDelivery *time.Time       `json:"earliest,omitempty"`
	LatestDelivery   *time.Time       `json:"latest,omitempty"`
}

// Price is an observed amount in a currency.
type Price struct {
	Amount   float64 `json:"price"`
	Currency string  `json:"currency"`
}

// Defined reports whether the price carries a usable amount.
func (p *Price) Defined() bool {
	return p != nil && !math.IsNaN(p.Amount) && !math.IsInf(p.Amount, 0)
}

// String renders the price for notifications, e.g. "499.00 EUR".
func (p *Price) String() string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f %s", p.Amount, p.Currency)
}

// Item pairs a product with its price and availability as seen in one
// query response. Any part may be missing in a raw payload.
type Item struct {
	Product      *Product      `json:"product,omitempty"`
	Price        *Price        `json:"price,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
}

// ProductID returns the product id, or "" when the item has no product.
func (i *Item) ProductID() string {
	if i == nil || i.Product == nil {
		return ""
	}
	return i.Product.ID
}

// Cookie is a basket session token captured by basket automation.
type Cookie struct {
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
}

// CooldownDomain names one of the two independent cooldown maps.
type CooldownDomain string

// Cooldown domain constants.
const (
	CooldownStock  CooldownDomain = "stock"
	CooldownBasket CooldownDomain = "basket"
)

// ParseCooldownDomain parses a domain name; empty means stock.
func ParseCooldownDomain(s string) (CooldownDomain, error) {
	switch CooldownDomain(s) {
	case "", CooldownStock:
		return CooldownStock, nil
	case CooldownBasket:
		return CooldownBasket, nil
	default:
		return "", fmt.Errorf("unknown cooldown domain %q", s)
	}
}

// Buyability tags a cooldown with the buyable state it was created under.
// Basket cooldowns carry BuyabilityNotApplicable.
type Buyability int

// Buyability values.
const (
	BuyabilityNotApplicable Buyability = iota
	BuyabilityBuyable
	BuyabilityNotBuyable
)

// BuyabilityOf converts a classifier result into a tag.
func BuyabilityOf(buyable bool) Buyability {
	if buyable {
		return BuyabilityBuyable
	}
	return BuyabilityNotBuyable
}

func (b Buyability) String() string {
	switch b {
	case BuyabilityBuyable:
		return "buyable"
	case BuyabilityNotBuyable:
		return "not_buyable"
	default:
		return "n/a"
	}
}

// MarshalJSON encodes the tag as true, false or null.
func (b Buyability) MarshalJSON() ([]byte, error) {
	switch b {
	case BuyabilityBuyable:
		return []byte("true"), nil
	case BuyabilityNotBuyable:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes true, false or null.
func (b *Buyability) UnmarshalJSON(data []byte) error {
	var v *bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding isProductBuyable: %w", err)
	}
	switch {
	case v == nil:
		*b = BuyabilityNotApplicable
	case *v:
		*b = BuyabilityBuyable
	default:
		*b = BuyabilityNotBuyable
	}
	return nil
}

// Cooldown suppresses repeat notifications or basket attempts for a
// product until EndTime.
type Cooldown struct {
	ID         string     `json:"id"`
	Buyability Buyability `json:"isProductBuyable"`
	EndTime    time.Time  `json:"endTime"`
}

// Active reports whether the cooldown still suppresses at now.
func (c *Cooldown) Active(now time.Time) bool {
	return now.Before(c.EndTime)
}
