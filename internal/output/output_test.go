package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/stock-tracker/internal/api/handlers"
	"github.com/donaldgifford/stock-tracker/internal/engine"
)

func TestReports(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Reports(&buf, []engine.CycleReport{
		{Store: "de", Outcome: engine.OutcomeOK, Items: 12, Notified: 2, Suppressed: 10, Duration: 1500 * time.Millisecond},
		{Store: "at", Outcome: engine.OutcomeRateLimited, Error: "rate limited, retry after 30s"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "STORE"))
	assert.Equal(t, []string{"de", "ok", "12", "2", "10", "0", "0", "0", "1.5s"}, strings.Fields(lines[1]))
	assert.Equal(t, "rate_limited", strings.Fields(lines[2])[1])
	assert.Equal(t, "at: rate limited, retry after 30s", lines[3])
}

func TestStores(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Stores(&buf, []handlers.StoreSummary{{ID: "de", Stock: 3, Basket: 1}}))
	assert.Contains(t, buf.String(), "STORE  STOCK  BASKET")
	assert.Equal(t, []string{"de", "3", "1"}, strings.Fields(strings.Split(buf.String(), "\n")[1]))
}

func TestCooldowns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Cooldowns(&buf, []handlers.CooldownView{
		{ID: "123", Buyability: "buyable", EndTime: time.Now(), RemainingSeconds: 90},
	}))
	assert.Contains(t, buf.String(), "1m30s")
	assert.Contains(t, buf.String(), "buyable")
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
