package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	mw "github.com/donaldgifford/stock-tracker/internal/api/middleware"
	"github.com/donaldgifford/stock-tracker/internal/metrics"
)

func TestMetricsMiddleware_RouteTemplateLabel(t *testing.T) {
	e := echo.New()
	e.Use(mw.Metrics())
	e.GET("/api/v1/stores/:store/cooldowns", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(
		http.MethodGet, "/api/v1/stores/:store/cooldowns", "200",
	)
	before := testutil.ToFloat64(counter)

	for _, store := range []string{"de", "at"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stores/"+store+"/cooldowns", http.NoBody))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.InDelta(t, before+2, testutil.ToFloat64(counter), 0)
}

func TestMetricsMiddleware_ErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(mw.Metrics())
	e.POST("/api/v1/check", func(_ echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "busy")
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/v1/check", "409")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/check", http.NoBody))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.InDelta(t, before+1, testutil.ToFloat64(counter), 0)
}

func TestMetricsMiddleware_ProbeGauges(t *testing.T) {
	e := echo.New()
	e.Use(mw.Metrics())

	ready := true
	e.GET("/readyz", func(c echo.Context) error {
		if ready {
			return c.NoContent(http.StatusOK)
		}
		return c.NoContent(http.StatusServiceUnavailable)
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ReadyzUp), 0)

	ready = false
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.ReadyzUp), 0)
}
