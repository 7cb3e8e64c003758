// Package availability classifies observed items as available, buyable or
// basket-addable, and resolves the product URLs used in notifications.
package availability

import (
	"net/url"
	"strings"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// Classifier maps an item snapshot to availability decisions. The zero
// value ignores online status; use New for the usual behavior.
type Classifier struct {
	// CheckOnlineStatus gates whether product.OnlineStatus participates.
	// When false every product is treated as online, which some regional
	// storefronts need because they never report the flag reliably.
	CheckOnlineStatus bool
}

// New returns a Classifier.
func New(checkOnlineStatus bool) Classifier {
	return Classifier{CheckOnlineStatus: checkOnlineStatus}
}

func (c Classifier) online(p *domain.Product) bool {
	return !c.CheckOnlineStatus || p.OnlineStatus
}

// deliverable reports whether the delivery state alone allows a purchase.
func deliverable(a *domain.Availability) bool {
	if a == nil {
		return false
	}
	switch a.Type.Normalize() {
	case domain.AvailabilityInStore:
		return true
	case domain.AvailabilityInWarehouse, domain.AvailabilityLongTail:
		return a.Quantity > 0
	default:
		return false
	}
}

// IsAvailable reports whether the item is online or has stock somewhere.
func (c Classifier) IsAvailable(item *domain.Item) bool {
	if item == nil || item.Product == nil {
		return false
	}
	return c.online(item.Product) || deliverable(item.Availability)
}

// IsBuyable reports whether the item can be purchased right now.
// IsBuyable implies IsAvailable.
func (c Classifier) IsBuyable(item *domain.Item) bool {
	if item == nil || item.Product == nil {
		return false
	}
	return c.online(item.Product) && deliverable(item.Availability)
}

// CanBeAddedToBasket reports whether the product can be parked in a basket
// regardless of its delivery state.
func (c Classifier) CanBeAddedToBasket(item *domain.Item) bool {
	if item == nil || item.Product == nil {
		return false
	}
	return c.online(item.Product)
}

const magicianSuffix = "_magician"

// URLOptions controls product URL resolution.
type URLOptions struct {
	// Replacements overrides the URL for a product id. With Magician set
	// the key "<id>_magician" is consulted instead.
	Replacements map[string]string
	Magician     bool
	// TrackingParam, e.g. "utm_source=bot", is appended as a query string.
	TrackingParam string
}

// ProductURL returns the link notifiers should use for the item.
func ProductURL(item *domain.Item, baseURL string, opts URLOptions) string {
	id := item.ProductID()

	key := id
	if opts.Magician {
		key = id + magicianSuffix
	}
	if u, ok := opts.Replacements[key]; ok && id != "" {
		return u
	}

	base := strings.TrimRight(baseURL, "/")
	if id == "" {
		return base
	}

	path := item.Product.URL
	if path == "" {
		path = "/product/-" + id + ".html"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var query []string
	if opts.Magician {
		query = append(query, "magician="+url.QueryEscape(id))
	}
	if opts.TrackingParam != "" {
		query = append(query, opts.TrackingParam)
	}

	u := base + path
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		u += sep + strings.Join(query, "&")
	}
	return u
}
