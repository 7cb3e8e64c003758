package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/stock-tracker/tools/dashgen/dashboards"
	"github.com/donaldgifford/stock-tracker/tools/dashgen/rules"
	"github.com/donaldgifford/stock-tracker/tools/dashgen/validate"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_EmptyOutputDir(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "", DashboardEnabled: true}
	assert.Error(t, cfg.Validate())
}

func TestConfigValidate_NothingEnabled(t *testing.T) {
	t.Parallel()
	cfg := Config{OutputDir: "/tmp", DashboardEnabled: false, RulesEnabled: false}
	assert.Error(t, cfg.Validate())
}

func TestBuildOverviewDashboard(t *testing.T) {
	t.Parallel()

	dash, err := dashboards.BuildOverview().Build()
	require.NoError(t, err)

	require.NotNil(t, dash.Uid)
	assert.Equal(t, "stk-overview", *dash.Uid)

	require.NotNil(t, dash.Title)
	assert.Equal(t, "Stock Tracker Overview", *dash.Title)

	require.NotNil(t, dash.Templating)
	assert.Len(t, dash.Templating.List, 1)
	assert.Equal(t, "datasource", dash.Templating.List[0].Name)

	assert.Len(t, dash.Panels, 6)

	totalPanels := 0
	for _, p := range dash.Panels {
		if p.RowPanel != nil {
			totalPanels += len(p.RowPanel.Panels)
		}
	}
	assert.Equal(t, 18, totalPanels)

	result := validate.Dashboard(dash, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings, "unexpected warnings: %v", result.Warnings)
}

func TestRecordingRules(t *testing.T) {
	t.Parallel()

	cr := rules.RecordingRules()
	assert.Equal(t, "monitoring.coreos.com/v1", cr.APIVersion)
	assert.Equal(t, "PrometheusRule", cr.Kind)
	assert.Equal(t, "stk-recording-rules", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "stk-recording", group.Name)

	expectedRecords := []string{
		"stk:http_requests:rate5m",
		"stk:http_errors:rate5m",
		"stk:cycles:rate5m",
		"stk:query_errors:rate5m",
		"stk:storefront_requests:rate5m",
		"stk:stock_notifications:rate5m",
	}
	require.Len(t, group.Rules, len(expectedRecords))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedRecords[i], rule.Record)
		assert.True(t, KnownMetrics[rule.Record], "%s missing from KnownMetrics", rule.Record)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)

	data, err := yaml.Marshal(cr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "apiVersion: monitoring.coreos.com/v1")
}

func TestAlertRules(t *testing.T) {
	t.Parallel()

	cr := rules.AlertRules()
	assert.Equal(t, "stk-alerts", cr.Metadata.Name)

	require.Len(t, cr.Spec.Groups, 1)
	group := cr.Spec.Groups[0]
	assert.Equal(t, "stk-alerts", group.Name)

	expectedAlerts := []string{
		"StkDown",
		"StkReadinessDown",
		"StkNoSuccessfulCycles",
		"StkUnauthorized",
		"StkRateLimited",
		"StkNotificationFailures",
		"StkPersistenceErrors",
	}
	require.Len(t, group.Rules, len(expectedAlerts))
	for i, rule := range group.Rules {
		assert.Equal(t, expectedAlerts[i], rule.Alert)
		assert.NotEmpty(t, rule.Labels["severity"], "alert %s missing severity", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], "alert %s missing summary", rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], "alert %s missing description", rule.Alert)
	}

	result := validate.Rules(cr, KnownMetrics)
	assert.True(t, result.Ok(), "validation errors: %v", result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestRun_WritesArtifacts(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	require.NoError(t, run(cfg, false))

	dashPath := filepath.Join(cfg.OutputDir, "grafana", "data", "stk-overview.json")
	data, err := os.ReadFile(dashPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	for _, name := range []string{"stk-recording-rules.yaml", "stk-alerts.yaml"} {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "prometheus", name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), generatedHeader)

		var cr rules.PrometheusRule
		require.NoError(t, yaml.Unmarshal(data, &cr), name)
		assert.Equal(t, "PrometheusRule", cr.Kind)

		data, err = os.ReadFile(filepath.Join(cfg.OutputDir, "prometheus", "rules", name))
		require.NoError(t, err, name)

		var file rules.RuleFile
		require.NoError(t, yaml.Unmarshal(data, &file), name)
		assert.Equal(t, cr.Spec.Groups, file.Groups)
	}
}

func TestRun_ValidateOnlyWritesNothing(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	require.NoError(t, run(cfg, true))

	_, err := os.Stat(cfg.OutputDir)
	assert.True(t, os.IsNotExist(err))
}
