package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/donaldgifford/stock-tracker/internal/metrics"
)

// maxErrorBody bounds how much of an error response is quoted.
const maxErrorBody = 512

// postJSON sends payload to url and maps non-2xx answers to errors that
// name the service.
func postJSON(ctx context.Context, client *http.Client, service, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", service, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating %s request: %w", service, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("sending %s request: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%s rate limited (429)", service)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return fmt.Errorf("%s returned %d (body unreadable)", service, resp.StatusCode)
		}
		return fmt.Errorf("%s returned %d: %s", service, resp.StatusCode, respBody)
	}

	return nil
}
