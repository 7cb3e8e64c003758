package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/stock-tracker/internal/engine"
)

// CycleRunner runs polling cycles on demand.
type CycleRunner interface {
	RunCycle(ctx context.Context) ([]engine.CycleReport, error)
	RunStore(ctx context.Context, storeID string) (engine.CycleReport, error)
}

// CheckHandler triggers a polling cycle outside the schedule.
type CheckHandler struct {
	runner CycleRunner
}

// NewCheckHandler creates a new CheckHandler.
func NewCheckHandler(r CycleRunner) *CheckHandler {
	return &CheckHandler{runner: r}
}

// CheckInput optionally narrows the cycle to one storefront.
type CheckInput struct {
	Store string `query:"store" doc:"Run only this storefront id; empty runs all of them"`
}

// CheckOutput is the response body of a manual cycle.
type CheckOutput struct {
	Body struct {
		Reports []engine.CycleReport `json:"reports" doc:"One report per storefront in configuration order"`
	}
}

// Check runs one cycle and returns the per-store reports. Aborted stores
// are reported through their outcome; the request fails only when every
// store was already busy.
func (h *CheckHandler) Check(ctx context.Context, in *CheckInput) (*CheckOutput, error) {
	var (
		reports []engine.CycleReport
		err     error
	)
	if in.Store != "" {
		var r engine.CycleReport
		r, err = h.runner.RunStore(ctx, in.Store)
		reports = []engine.CycleReport{r}
	} else {
		reports, err = h.runner.RunCycle(ctx)
	}

	switch {
	case errors.Is(err, engine.ErrUnknownStore):
		return nil, huma.Error404NotFound("unknown store " + in.Store)
	case err != nil && allBusy(reports):
		return nil, huma.Error409Conflict("cycle already in progress")
	case err != nil && len(reports) == 0:
		return nil, huma.Error500InternalServerError("cycle failed: " + err.Error())
	}

	resp := &CheckOutput{}
	resp.Body.Reports = reports
	if resp.Body.Reports == nil {
		resp.Body.Reports = []engine.CycleReport{}
	}
	return resp, nil
}

func allBusy(reports []engine.CycleReport) bool {
	if len(reports) == 0 {
		return false
	}
	for i := range reports {
		if reports[i].Outcome != engine.OutcomeBusy {
			return false
		}
	}
	return true
}

// RegisterCheckRoutes registers the manual cycle endpoint.
func RegisterCheckRoutes(api huma.API, h *CheckHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "run-check",
		Method:      http.MethodPost,
		Path:        "/api/v1/check",
		Summary:     "Run a polling cycle now",
		Description: "Queries every configured storefront (or one, with ?store=), evaluates " +
			"the items, runs basket automation, and returns a report per store.",
		Tags:   []string{"engine"},
		Errors: []int{http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError},
	}, h.Check)
}
