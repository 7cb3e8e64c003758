package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/stock-tracker/internal/availability"
	"github.com/donaldgifford/stock-tracker/internal/config"
	"github.com/donaldgifford/stock-tracker/internal/cooldown"
	"github.com/donaldgifford/stock-tracker/internal/engine"
	"github.com/donaldgifford/stock-tracker/internal/notify"
	"github.com/donaldgifford/stock-tracker/internal/store"
	"github.com/donaldgifford/stock-tracker/internal/storefront"
	"github.com/donaldgifford/stock-tracker/pkg/logger"
)

const (
	notifyTimeout = 15 * time.Second
	retryWaitMin  = 500 * time.Millisecond
	retryWaitMax  = 10 * time.Second
)

// app holds everything a running daemon owns.
type app struct {
	store  store.Store
	engine *engine.Engine
	redis  *redis.Client
}

func (a *app) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}

// buildApp wires the configured storefronts into an engine and restores
// their persisted cooldowns.
func buildApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	a := &app{store: st}

	if cfg.Cooldowns.Persister == config.PersisterRedis {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Cooldowns.Redis.Addr,
			Password: cfg.Cooldowns.Redis.Password,
			DB:       cfg.Cooldowns.Redis.DB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
	} else if cfg.Cooldowns.Persister == config.PersisterFile {
		if err := os.MkdirAll(cfg.Cooldowns.Dir, 0o750); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("creating cooldown dir: %w", err)
		}
	}

	stores := make([]*engine.Storefront, 0, len(cfg.Stores))
	for i := range cfg.Stores {
		sf, err := buildStorefront(cfg, &cfg.Stores[i], st, a.redis, log)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		stores = append(stores, sf)
	}

	a.engine = engine.NewEngine(stores, engine.WithLogger(logger.ForComponent(log, "engine")))
	a.engine.RestoreAll(ctx)
	return a, nil
}

func openStore(ctx context.Context, db config.DatabaseConfig) (store.Store, error) {
	var dsn string
	switch db.Driver {
	case config.DriverPostgres:
		dsn = db.DSN()
	case config.DriverSQLite:
		dsn = db.SQLitePath
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("creating database dir: %w", err)
			}
		}
	}

	st, err := store.Open(ctx, db.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", db.Driver, err)
	}
	return st, nil
}

func newPersister(c config.CooldownsConfig, rdb *redis.Client, storeID string) cooldown.Persister {
	switch c.Persister {
	case config.PersisterFile:
		return cooldown.NewFilePersister(filepath.Join(c.Dir, storeID+".json"))
	case config.PersisterRedis:
		return cooldown.NewRedisPersister(rdb, c.Redis.KeyPrefix+storeID)
	default:
		return nil
	}
}

func tiers(c config.CooldownsConfig) engine.Tiers {
	return engine.Tiers{
		Buyable:            c.Buyable,
		NotAddable:         c.NotAddable,
		AddableNoCookies:   c.AddableNoCookies,
		AddableWithCookies: c.AddableWithCookies,
	}
}

func queries(s *config.StoreConfig) ([]storefront.Query, error) {
	out := make([]storefront.Query, 0, len(s.Queries))
	for i := range s.Queries {
		qc := &s.Queries[i]
		q := storefront.Query{
			Name:         qc.Name,
			Kind:         storefront.QueryKind(qc.Kind),
			Operation:    storefront.Operation{Name: qc.Operation, Hash: qc.Hash},
			Variables:    qc.Variables,
			ItemsPath:    qc.ItemsPath,
			PagesPath:    qc.PagesPath,
			PageVariable: qc.PageVariable,
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("store %s: %w", s.ID, err)
		}
		out = append(out, q)
	}
	return out, nil
}

func newNotifier(n config.NotificationsConfig, f *notify.Formatter, log *slog.Logger) *notify.Multi {
	hc := &http.Client{Timeout: notifyTimeout}
	m := notify.NewMulti(log)

	if n.Discord.Enabled {
		opts := []notify.DiscordOption{notify.WithHTTPClient(hc)}
		if n.Discord.Username != "" {
			opts = append(opts, notify.WithUsername(n.Discord.Username))
		}
		m.Register("discord", notify.NewDiscordNotifier(n.Discord.WebhookURL, f, opts...))
	}
	if n.Telegram.Enabled {
		opts := []notify.TelegramOption{notify.WithTelegramHTTPClient(hc)}
		if n.Telegram.APIURL != "" {
			opts = append(opts, notify.WithTelegramAPIURL(n.Telegram.APIURL))
		}
		m.Register("telegram", notify.NewTelegramNotifier(n.Telegram.BotToken, n.Telegram.ChatID, f, opts...))
	}
	if n.Webhook.Enabled {
		m.Register("webhook", notify.NewWebhookNotifier(n.Webhook.URL, f, notify.WithWebhookHTTPClient(hc)))
	}
	// Without any channel configured events still reach the log.
	if n.Log.Enabled || m.Len() == 0 {
		m.Register("log", notify.NewLogNotifier(log, f))
	}
	return m
}

func buildStorefront(
	cfg *config.Config,
	s *config.StoreConfig,
	st store.Store,
	rdb *redis.Client,
	log *slog.Logger,
) (*engine.Storefront, error) {
	log = logger.ForStore(log, s.ID)

	qs, err := queries(s)
	if err != nil {
		return nil, err
	}

	clientOpts := []storefront.ClientOption{
		storefront.WithRateLimiter(storefront.NewRateLimiter(s.RateLimit.PerSecond, s.RateLimit.Burst)),
		storefront.WithRetry(s.MaxRetries, retryWaitMin, retryWaitMax),
		storefront.WithLogger(log),
	}
	if s.SessionCookie != "" {
		clientOpts = append(clientOpts, storefront.WithSessionCookie(s.SessionCookie))
	}
	for k, v := range s.Headers {
		clientOpts = append(clientOpts, storefront.WithHeader(k, v))
	}
	client := storefront.NewClient(s.ID, s.GraphQLURL, clientOpts...)

	classifier := availability.New(s.OnlineStatusChecked())
	formatter := &notify.Formatter{
		StoreName: s.Name,
		BaseURL:   s.BaseURL,
		URLOptions: availability.URLOptions{
			Replacements:  s.URLReplacements,
			Magician:      s.Magician,
			TrackingParam: s.TrackingParam,
		},
		Classifier:   classifier,
		ImageBaseURL: s.ImageBaseURL,
	}
	notifier := newNotifier(cfg.Notifications, formatter, log)

	cdOpts := []cooldown.Option{cooldown.WithLogger(log)}
	if p := newPersister(cfg.Cooldowns, rdb, s.ID); p != nil {
		cdOpts = append(cdOpts, cooldown.WithPersister(p))
	}
	cds := cooldown.New(s.ID, cdOpts...)

	sf := &engine.Storefront{
		ID:      s.ID,
		Queries: qs,
		Pager: storefront.NewPaginator(client,
			storefront.WithMaxPages(s.MaxPages),
			storefront.WithCheckInAssortment(s.CheckInAssortment),
			storefront.WithPaginatorLogger(log),
		),
		Evaluator: engine.NewEvaluator(s.ID, classifier, cds, st, notifier,
			engine.WithTiers(tiers(cfg.Cooldowns)),
			engine.WithEvaluatorLogger(log),
		),
		Cooldowns: cds,
		Notifier:  notifier,
	}

	if cfg.Basket.Enabled {
		var basketOpts []storefront.BasketOption
		if s.Basket.CookieName != "" {
			basketOpts = append(basketOpts, storefront.WithCookieName(s.Basket.CookieName))
		}
		creator := storefront.NewBasketClient(client,
			storefront.Operation{Name: s.Basket.Operation, Hash: s.Basket.Hash},
			basketOpts...,
		)
		sf.Basket = engine.NewBasketRunner(s.ID, creator, st, cds, notifier,
			engine.WithCookiesPerProduct(cfg.Basket.CookiesPerProduct),
			engine.WithConcurrency(cfg.Basket.Concurrency),
			engine.WithBasketCooldown(cfg.Cooldowns.Basket),
			engine.WithBasketLogger(log),
		)
	}

	return sf, nil
}
