// Package main implements a mock storefront GraphQL endpoint for local
// development. It pages a wishlist fixture through persisted queries and
// answers basket mutations with a fresh session cookie, so the daemon can be
// exercised without a real storefront session.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"
)

type wishlistResponse struct {
	Data struct {
		WishlistItems struct {
			Items  []json.RawMessage `json:"items"`
			Paging struct {
				PageCount int `json:"pageCount"`
			} `json:"paging"`
		} `json:"wishlistItems"`
	} `json:"data"`
}

// defaultItems covers every availability type the classifier knows.
var defaultItems = []string{
	`{"product":{"id":"1000001","title":"Console Pro","url":"/de/product/_console-pro-1000001.html","onlineStatus":true},"price":{"price":549.99,"currency":"EUR"},"availability":{"delivery":{"availabilityType":"IN_WAREHOUSE","quantity":5}}}`,
	`{"product":{"id":"1000002","title":"Controller","url":"/de/product/_controller-1000002.html","onlineStatus":true},"price":{"price":69.99,"currency":"EUR"},"availability":{"delivery":{"availabilityType":"IN_STORE","quantity":0}}}`,
	`{"product":{"id":"1000003","title":"Headset","url":"/de/product/_headset-1000003.html","onlineStatus":true},"price":{"price":129.0,"currency":"EUR"},"availability":{"delivery":{"availabilityType":"LONG_TAIL","quantity":2}}}`,
	`{"product":{"id":"1000004","title":"Graphics Card","url":"/de/product/_graphics-card-1000004.html","onlineStatus":false},"price":{"price":899.0,"currency":"EUR"},"availability":{"delivery":{"availabilityType":"NONE","quantity":0}}}`,
}

type server struct {
	logger         *slog.Logger
	items          []json.RawMessage
	pageSize       int
	rateLimitEvery int64
	requests       atomic.Int64
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "", "path to a JSON array of wishlist items (default built-in items)")
	pageSize := flag.Int("page-size", 2, "items per page")
	rateLimitEvery := flag.Int("rate-limit-every", 0, "answer every Nth request with 429 (0 disables)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	items, err := loadItems(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded items", "items", len(items))

	s := newServer(logger, items, *pageSize, *rateLimitEvery)

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock storefront", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, s.routes()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newServer(logger *slog.Logger, items []json.RawMessage, pageSize, rateLimitEvery int) *server {
	if pageSize <= 0 {
		pageSize = 1
	}
	return &server{
		logger:         logger,
		items:          items,
		pageSize:       pageSize,
		rateLimitEvery: int64(rateLimitEvery),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /graphql", s.rateLimited(s.queryHandler))
	mux.HandleFunc("POST /graphql", s.rateLimited(s.mutationHandler))
	return mux
}

func loadItems(path string) ([]json.RawMessage, error) {
	if path == "" {
		items := make([]json.RawMessage, len(defaultItems))
		for i, raw := range defaultItems {
			items[i] = json.RawMessage(raw)
		}
		return items, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return items, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request",
			"method", r.Method,
			"operation", r.URL.Query().Get("operationName"),
			"has_session", r.Header.Get("Cookie") != "",
		)
		next.ServeHTTP(w, r)
	})
}

func (s *server) rateLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := s.requests.Add(1)
		if s.rateLimitEvery > 0 && n%s.rateLimitEvery == 0 {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
			s.logger.Warn("rate limited", "request", n)
			return
		}
		next(w, r)
	}
}

// pageOf reads the 1-based page number from the variables parameter.
func pageOf(r *http.Request) int {
	var vars map[string]any
	//nolint:errcheck,gosec // missing or malformed variables mean page 1
	json.Unmarshal([]byte(r.URL.Query().Get("variables")), &vars)

	switch p := vars["page"].(type) {
	case float64:
		if p >= 1 {
			return int(p)
		}
	case string:
		if v, err := strconv.Atoi(p); err == nil && v >= 1 {
			return v
		}
	}
	return 1
}

func (s *server) queryHandler(w http.ResponseWriter, r *http.Request) {
	page := pageOf(r)
	pages := max((len(s.items)+s.pageSize-1)/s.pageSize, 1)

	var resp wishlistResponse
	resp.Data.WishlistItems.Paging.PageCount = pages
	resp.Data.WishlistItems.Items = []json.RawMessage{}

	start := (page - 1) * s.pageSize
	if start < len(s.items) {
		end := min(start+s.pageSize, len(s.items))
		resp.Data.WishlistItems.Items = s.items[start:end]
	}

	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(resp)
	s.logger.Info("query", "page", page, "pages", pages, "returned", len(resp.Data.WishlistItems.Items))
}

func (s *server) mutationHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OperationName string `json:"operationName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "malformed body"}},
		})
		return
	}

	buf := make([]byte, 16)
	//nolint:errcheck,gosec // crypto/rand.Read does not fail on supported platforms
	rand.Read(buf)
	http.SetCookie(w, &http.Cookie{Name: "r", Value: hex.EncodeToString(buf), Path: "/"})

	w.Header().Set("Content-Type", "application/json")
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{"addProduct": map[string]any{"id": hex.EncodeToString(buf[:4])}},
	})
	s.logger.Info("basket created", "operation", body.OperationName)
}
