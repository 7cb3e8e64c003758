// Package storefront talks to a retailer's persisted-query GraphQL API:
// paging through wishlist, category and search queries, and creating basket
// sessions for basket automation.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/donaldgifford/stock-tracker/internal/metrics"
)

const (
	defaultRetryMax = 3
	defaultTimeout  = 30 * time.Second
	maxErrorBody    = 512
)

// Response is a successful GraphQL answer.
type Response struct {
	Body    []byte
	Cookies []*http.Cookie
}

// Client sends persisted GraphQL operations to one storefront.
type Client struct {
	storeID       string
	graphqlURL    string
	sessionCookie string
	headers       http.Header
	http          *retryablehttp.Client
	limiter       *RateLimiter
	log           *slog.Logger
	nowFunc       func() time.Time
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithSessionCookie sets the Cookie header sent with authenticated queries.
func WithSessionCookie(cookie string) ClientOption {
	return func(c *Client) {
		c.sessionCookie = cookie
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// WithRateLimiter paces requests through r.
func WithRateLimiter(r *RateLimiter) ClientOption {
	return func(c *Client) {
		c.limiter = r
	}
}

// WithRetry sets the retry count and backoff bounds for transient failures.
func WithRetry(maxRetries int, waitMin, waitMax time.Duration) ClientOption {
	return func(c *Client) {
		c.http.RetryMax = maxRetries
		c.http.RetryWaitMin = waitMin
		c.http.RetryWaitMax = waitMax
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http.HTTPClient = hc
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the storefront storeID serving GraphQL
// at graphqlURL.
func NewClient(storeID, graphqlURL string, opts ...ClientOption) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = defaultRetryMax
	rc.HTTPClient.Timeout = defaultTimeout
	rc.CheckRetry = checkRetry
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		storeID:    storeID,
		graphqlURL: graphqlURL,
		headers:    make(http.Header),
		http:       rc,
		limiter:    NewRateLimiter(0, 1),
		log:        slog.Default(),
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	rc.Logger = c.log
	return c
}

// StoreID returns the storefront shortcode.
func (c *Client) StoreID() string {
	return c.storeID
}

// checkRetry retries transport errors and 5xx answers but never retries
// the answers the polling cycle must react to.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusForbidden:
			return false, nil
		}
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

type persistedQuery struct {
	Version    int    `json:"version"`
	SHA256Hash string `json:"sha256Hash"`
}

type extensions struct {
	PersistedQuery persistedQuery `json:"persistedQuery"`
}

type operationBody struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Extensions    extensions     `json:"extensions"`
}

// Operation names one persisted GraphQL operation.
type Operation struct {
	Name string
	Hash string
}

// Query sends a persisted query as GET with the session cookie.
func (c *Client) Query(ctx context.Context, op Operation, vars map[string]any) (*Response, error) {
	body := operationBody{
		OperationName: op.Name,
		Variables:     vars,
		Extensions:    extensions{PersistedQuery: persistedQuery{Version: 1, SHA256Hash: op.Hash}},
	}
	varsJSON, err := json.Marshal(body.Variables)
	if err != nil {
		return nil, fmt.Errorf("encoding variables: %w", err)
	}
	extJSON, err := json.Marshal(body.Extensions)
	if err != nil {
		return nil, fmt.Errorf("encoding extensions: %w", err)
	}

	params := url.Values{}
	params.Set("operationName", op.Name)
	params.Set("variables", string(varsJSON))
	params.Set("extensions", string(extJSON))

	sep := "?"
	if strings.Contains(c.graphqlURL, "?") {
		sep = "&"
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.graphqlURL+sep+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", op.Name, err)
	}
	return c.do(req, op.Name, true)
}

// Mutate sends a persisted mutation as POST. withSession controls whether
// the configured session cookie is attached; basket automation sends
// anonymous mutations to obtain a fresh session.
func (c *Client) Mutate(
	ctx context.Context,
	op Operation,
	vars map[string]any,
	withSession bool,
) (*Response, error) {
	payload, err := json.Marshal(operationBody{
		OperationName: op.Name,
		Variables:     vars,
		Extensions:    extensions{PersistedQuery: persistedQuery{Version: 1, SHA256Hash: op.Hash}},
	})
	if err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", op.Name, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", op.Name, err)
	}
	return c.do(req, op.Name, withSession)
}

func (c *Client) do(req *retryablehttp.Request, opName string, withSession bool) (*Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Operation", opName)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if withSession && c.sessionCookie != "" {
		req.Header.Set("Cookie", c.sessionCookie)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.StorefrontRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StorefrontRequestsTotal.WithLabelValues(opName, "error").Inc()
		return nil, fmt.Errorf("executing %s request: %w", opName, err)
	}
	defer resp.Body.Close()
	metrics.StorefrontRequestsTotal.WithLabelValues(opName, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", opName, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		d := parseRetryAfter(resp.Header.Get("Retry-After"), c.nowFunc())
		c.limiter.Block(d)
		metrics.RateLimitHitsTotal.WithLabelValues(c.storeID).Inc()
		return nil, &RateLimitError{RetryAfter: d}
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s returned %d: %w", opName, resp.StatusCode, ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s returned %d: %s", opName, resp.StatusCode, truncate(body))
	}

	if err := graphQLError(body); err != nil {
		return nil, fmt.Errorf("%s: %w", opName, err)
	}

	return &Response{Body: body, Cookies: resp.Cookies()}, nil
}

var unauthorizedCodes = map[string]bool{
	"UNAUTHENTICATED": true,
	"UNAUTHORIZED":    true,
	"FORBIDDEN":       true,
}

// graphQLError inspects the errors array of a 200 answer. Errors next to a
// non-null data object are partial results and pass.
func graphQLError(body []byte) error {
	if !gjson.ValidBytes(body) {
		return errors.New("response is not valid JSON")
	}

	errs := gjson.GetBytes(body, "errors")
	if !errs.IsArray() || len(errs.Array()) == 0 {
		return nil
	}

	var msgs []string
	for _, e := range errs.Array() {
		if unauthorizedCodes[strings.ToUpper(e.Get("extensions.code").String())] {
			return fmt.Errorf("%s: %w", e.Get("message").String(), ErrUnauthorized)
		}
		msgs = append(msgs, e.Get("message").String())
	}

	data := gjson.GetBytes(body, "data")
	if data.Exists() && data.Type != gjson.Null {
		return nil
	}
	return fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
