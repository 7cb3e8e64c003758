package storefront

import (
	"context"
	"fmt"
	"log/slog"

	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

const defaultMaxPages = 20

// Stop reasons reported by Paginator.Each.
const (
	StoppedNoMoreResults = "no_more_results"
	StoppedMaxPages      = "max_pages"
	StoppedLastPage      = "last_page"
)

// Paginator walks every page of a query and hands each batch to a callback.
type Paginator struct {
	fetcher           Fetcher
	maxPages          int
	checkInAssortment bool
	log               *slog.Logger
}

// PaginatorOption configures the Paginator.
type PaginatorOption func(*Paginator)

// WithMaxPages caps the number of pages fetched per query.
func WithMaxPages(n int) PaginatorOption {
	return func(p *Paginator) {
		p.maxPages = n
	}
}

// WithCheckInAssortment drops items whose product reports
// inAssortment == false.
func WithCheckInAssortment(enabled bool) PaginatorOption {
	return func(p *Paginator) {
		p.checkInAssortment = enabled
	}
}

// WithPaginatorLogger sets the logger.
func WithPaginatorLogger(l *slog.Logger) PaginatorOption {
	return func(p *Paginator) {
		p.log = l
	}
}

// NewPaginator creates a Paginator over f.
func NewPaginator(f Fetcher, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		fetcher:  f,
		maxPages: defaultMaxPages,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Each fetches pages 1..n of q and calls fn with every non-empty batch. It
// stops at the last reported page, on an empty page, or at the page cap.
// The first error from the fetcher or fn is returned.
func (p *Paginator) Each(ctx context.Context, q Query, fn func([]domain.Item) error) error {
	stopped := StoppedMaxPages
	pages := 0

	for page := 1; page <= p.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := p.fetcher.Fetch(ctx, q, page)
		if err != nil {
			return fmt.Errorf("query %s page %d: %w", q.Name, page, err)
		}
		pages++

		items := p.filter(resp.Items)
		if len(resp.Items) == 0 {
			stopped = StoppedNoMoreResults
			break
		}

		if len(items) > 0 {
			if err := fn(items); err != nil {
				return err
			}
		}

		if resp.TotalPages <= page {
			stopped = StoppedLastPage
			break
		}
	}

	p.log.Debug("query paged",
		"query", q.Name,
		"pages", pages,
		"stopped_at", stopped,
	)
	return nil
}

func (p *Paginator) filter(items []domain.Item) []domain.Item {
	if !p.checkInAssortment {
		return items
	}
	kept := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if item.Product != nil && item.Product.InAssortment != nil && !*item.Product.InAssortment {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
