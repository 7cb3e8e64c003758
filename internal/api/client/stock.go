package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/donaldgifford/stock-tracker/internal/api/handlers"
	"github.com/donaldgifford/stock-tracker/internal/engine"
)

// Check runs one polling cycle, for one store when storeID is set.
func (c *Client) Check(ctx context.Context, storeID string) ([]engine.CycleReport, error) {
	path := "/api/v1/check"
	if storeID != "" {
		path += "?store=" + url.QueryEscape(storeID)
	}

	var out struct {
		Reports []engine.CycleReport `json:"reports"`
	}
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

// ListStores returns the configured storefronts with cooldown counts.
func (c *Client) ListStores(ctx context.Context) ([]handlers.StoreSummary, error) {
	var out []handlers.StoreSummary
	if err := c.do(ctx, http.MethodGet, "/api/v1/stores", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func cooldownPath(storeID, id, domain string) string {
	p := "/api/v1/stores/" + url.PathEscape(storeID) + "/cooldowns"
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	if domain != "" {
		p += "?domain=" + url.QueryEscape(domain)
	}
	return p
}

// ListCooldowns returns the active cooldowns of a store in one domain
// ("stock" or "basket"; empty means stock).
func (c *Client) ListCooldowns(ctx context.Context, storeID, domain string) ([]handlers.CooldownView, error) {
	var out []handlers.CooldownView
	if err := c.do(ctx, http.MethodGet, cooldownPath(storeID, "", domain), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearCooldown removes one cooldown.
func (c *Client) ClearCooldown(ctx context.Context, storeID, id, domain string) error {
	return c.do(ctx, http.MethodDelete, cooldownPath(storeID, id, domain), nil, nil)
}
