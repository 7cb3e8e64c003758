package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"

	"github.com/tidwall/gjson"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// QueryKind selects the response layout of a persisted query.
type QueryKind string

// Query kinds.
const (
	QueryWishlist QueryKind = "wishlist"
	QueryCategory QueryKind = "category"
	QuerySearch   QueryKind = "search"
)

type queryLayout struct {
	itemsPath string
	pagesPath string
}

var layouts = map[QueryKind]queryLayout{
	QueryWishlist: {itemsPath: "data.wishlistItems.items", pagesPath: "data.wishlistItems.paging.pageCount"},
	QueryCategory: {itemsPath: "data.categoryV4.products", pagesPath: "data.categoryV4.paging.pageCount"},
	QuerySearch:   {itemsPath: "data.searchV4.products", pagesPath: "data.searchV4.paging.pageCount"},
}

const defaultPageVariable = "page"

// Query is one configured product listing the cycle pages through.
type Query struct {
	Name      string
	Kind      QueryKind
	Operation Operation
	Variables map[string]any

	// ItemsPath and PagesPath are gjson paths overriding the layout
	// implied by Kind.
	ItemsPath    string
	PagesPath    string
	PageVariable string
}

func (q Query) itemsPath() string {
	if q.ItemsPath != "" {
		return q.ItemsPath
	}
	return layouts[q.Kind].itemsPath
}

func (q Query) pagesPath() string {
	if q.PagesPath != "" {
		return q.PagesPath
	}
	return layouts[q.Kind].pagesPath
}

func (q Query) pageVariable() string {
	if q.PageVariable != "" {
		return q.PageVariable
	}
	return defaultPageVariable
}

// Validate reports whether the query can be executed.
func (q Query) Validate() error {
	if q.Operation.Name == "" || q.Operation.Hash == "" {
		return fmt.Errorf("query %q: operation name and hash are required", q.Name)
	}
	if q.itemsPath() == "" {
		return fmt.Errorf("query %q: unknown kind %q and no items path", q.Name, q.Kind)
	}
	return nil
}

// Page is one page of a query answer.
type Page struct {
	Items      []domain.Item
	Page       int
	TotalPages int
}

// Fetcher retrieves one page of a query.
type Fetcher interface {
	Fetch(ctx context.Context, q Query, page int) (*Page, error)
}

// Fetch implements Fetcher over the persisted query endpoint.
func (c *Client) Fetch(ctx context.Context, q Query, page int) (*Page, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	vars := maps.Clone(q.Variables)
	if vars == nil {
		vars = make(map[string]any, 1)
	}
	vars[q.pageVariable()] = page

	resp, err := c.Query(ctx, q.Operation, vars)
	if err != nil {
		return nil, fmt.Errorf("fetching %s page %d: %w", q.Name, page, err)
	}

	items := ExtractItems(resp.Body, q.itemsPath(), c.log)
	total := int(gjson.GetBytes(resp.Body, q.pagesPath()).Int())

	return &Page{Items: items, Page: page, TotalPages: total}, nil
}

// ExtractItems decodes the item array at path. Each entry carries product,
// price and availability.delivery objects; parts that fail to decode are
// left nil so the classifier degrades instead of the page failing. A price
// without a numeric amount is treated as missing.
func ExtractItems(body []byte, path string, log *slog.Logger) []domain.Item {
	if log == nil {
		log = slog.Default()
	}

	entries := gjson.GetBytes(body, path).Array()
	items := make([]domain.Item, 0, len(entries))
	for i, e := range entries {
		var item domain.Item

		if p := e.Get("product"); p.IsObject() {
			var product domain.Product
			if err := json.Unmarshal([]byte(p.Raw), &product); err != nil {
				log.Debug("skipping malformed product", "index", i, "error", err)
			} else {
				item.Product = &product
			}
		}

		if p := e.Get("price"); p.IsObject() && p.Get("price").Type == gjson.Number {
			var price domain.Price
			if err := json.Unmarshal([]byte(p.Raw), &price); err != nil {
				log.Debug("ignoring malformed price", "product_id", item.ProductID(), "error", err)
			} else {
				item.Price = &price
			}
		}

		if a := e.Get("availability.delivery"); a.IsObject() {
			var avail domain.Availability
			if err := json.Unmarshal([]byte(a.Raw), &avail); err != nil {
				log.Debug("ignoring malformed availability", "product_id", item.ProductID(), "error", err)
			} else {
				item.Availability = &avail
			}
		}

		items = append(items, item)
	}
	return items
}
