package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/stock-tracker/internal/cooldown"
	domain "github.com/donaldgifford/stock-tracker/pkg/types"
)

// CooldownSource exposes the per-storefront cooldown stores.
type CooldownSource interface {
	Stores() []string
	Cooldowns(storeID string) (*cooldown.Store, error)
}

// CooldownsHandler lists and clears cooldowns.
type CooldownsHandler struct {
	source CooldownSource
}

// NewCooldownsHandler creates a new CooldownsHandler.
func NewCooldownsHandler(s CooldownSource) *CooldownsHandler {
	return &CooldownsHandler{source: s}
}

// StoreSummary counts the active cooldowns of one storefront.
type StoreSummary struct {
	ID     string `json:"id" example:"de"`
	Stock  int    `json:"stockCooldowns"`
	Basket int    `json:"basketCooldowns"`
}

// ListStoresOutput is the response body for listing storefronts.
type ListStoresOutput struct {
	Body []StoreSummary
}

// CooldownView is one active cooldown.
type CooldownView struct {
	ID               string    `json:"id" example:"123456"`
	Buyability       string    `json:"buyability" enum:"buyable,not_buyable,n/a" doc:"State the cooldown was created under"`
	EndTime          time.Time `json:"endTime"`
	RemainingSeconds int64     `json:"remainingSeconds"`
}

// ListCooldownsInput selects the storefront and domain to list.
type ListCooldownsInput struct {
	Store  string `path:"store" doc:"Storefront id"`
	Domain string `query:"domain" enum:"stock,basket" default:"stock" doc:"Cooldown domain"`
}

// ListCooldownsOutput is the response body for listing cooldowns.
type ListCooldownsOutput struct {
	Body []CooldownView
}

// DeleteCooldownInput identifies the cooldown to clear.
type DeleteCooldownInput struct {
	Store  string `path:"store" doc:"Storefront id"`
	ID     string `path:"id" doc:"Product id"`
	Domain string `query:"domain" enum:"stock,basket" default:"stock" doc:"Cooldown domain"`
}

// DeleteCooldownOutput has no body.
type DeleteCooldownOutput struct{}

// ListStores returns every configured storefront with its cooldown counts.
func (h *CooldownsHandler) ListStores(_ context.Context, _ *struct{}) (*ListStoresOutput, error) {
	ids := h.source.Stores()
	out := make([]StoreSummary, 0, len(ids))
	for _, id := range ids {
		cs, err := h.source.Cooldowns(id)
		if err != nil {
			return nil, huma.Error500InternalServerError("reading cooldowns: " + err.Error())
		}
		stock, basket := cs.Len()
		out = append(out, StoreSummary{ID: id, Stock: stock, Basket: basket})
	}
	return &ListStoresOutput{Body: out}, nil
}

// List returns the active cooldowns of one domain, sorted by product id.
func (h *CooldownsHandler) List(_ context.Context, in *ListCooldownsInput) (*ListCooldownsOutput, error) {
	cs, d, err := h.resolve(in.Store, in.Domain)
	if err != nil {
		return nil, err
	}

	now := cs.Now()
	records := cs.List(d)
	out := make([]CooldownView, len(records))
	for i := range records {
		c := &records[i]
		out[i] = CooldownView{
			ID:               c.ID,
			Buyability:       c.Buyability.String(),
			EndTime:          c.EndTime,
			RemainingSeconds: int64(c.EndTime.Sub(now) / time.Second),
		}
	}
	return &ListCooldownsOutput{Body: out}, nil
}

// Delete clears one cooldown so the product is evaluated afresh next cycle.
func (h *CooldownsHandler) Delete(_ context.Context, in *DeleteCooldownInput) (*DeleteCooldownOutput, error) {
	cs, d, err := h.resolve(in.Store, in.Domain)
	if err != nil {
		return nil, err
	}
	if !cs.DeleteIn(d, in.ID) {
		return nil, huma.Error404NotFound("no " + string(d) + " cooldown for " + in.ID)
	}
	return &DeleteCooldownOutput{}, nil
}

func (h *CooldownsHandler) resolve(storeID, name string) (*cooldown.Store, domain.CooldownDomain, error) {
	d, err := domain.ParseCooldownDomain(name)
	if err != nil {
		return nil, "", huma.Error400BadRequest(err.Error())
	}
	cs, err := h.source.Cooldowns(storeID)
	if err != nil {
		return nil, "", huma.Error404NotFound("unknown store " + storeID)
	}
	return cs, d, nil
}

// RegisterCooldownRoutes registers storefront and cooldown endpoints.
func RegisterCooldownRoutes(api huma.API, h *CooldownsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-stores",
		Method:      http.MethodGet,
		Path:        "/api/v1/stores",
		Summary:     "List storefronts",
		Description: "Returns every configured storefront with its active cooldown counts.",
		Tags:        []string{"cooldowns"},
	}, h.ListStores)

	huma.Register(api, huma.Operation{
		OperationID: "list-cooldowns",
		Method:      http.MethodGet,
		Path:        "/api/v1/stores/{store}/cooldowns",
		Summary:     "List active cooldowns",
		Description: "Returns the active stock or basket cooldowns of a storefront.",
		Tags:        []string{"cooldowns"},
		Errors:      []int{http.StatusNotFound},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-cooldown",
		Method:        http.MethodDelete,
		Path:          "/api/v1/stores/{store}/cooldowns/{id}",
		Summary:       "Clear a cooldown",
		Description:   "Removes one cooldown so the product is reported again on its next match.",
		Tags:          []string{"cooldowns"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.Delete)
}
