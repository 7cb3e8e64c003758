// Package config handles loading and validating the application configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Cooldown persisters.
const (
	PersisterFile  = "file"
	PersisterRedis = "redis"
	PersisterNone  = "none"
)

// Query kinds with a built-in response layout.
var knownQueryKinds = map[string]bool{
	"wishlist": true,
	"category": true,
	"search":   true,
}

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Cooldowns     CooldownsConfig     `yaml:"cooldowns"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Basket        BasketConfig        `yaml:"basket"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
	Stores        []StoreConfig       `yaml:"stores"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects and configures the persistence backend.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Name       string `yaml:"name"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	SSLMode    string `yaml:"sslmode"`
	PoolSize   int    `yaml:"pool_size"`
	SQLitePath string `yaml:"sqlite_path"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode, d.PoolSize,
	)
}

// CooldownsConfig holds the suppression windows and where cooldowns are
// persisted between restarts.
type CooldownsConfig struct {
	Buyable            time.Duration `yaml:"buyable"`
	NotAddable         time.Duration `yaml:"not_addable"`
	AddableNoCookies   time.Duration `yaml:"addable_no_cookies"`
	AddableWithCookies time.Duration `yaml:"addable_with_cookies"`
	Basket             time.Duration `yaml:"basket"`

	Persister string      `yaml:"persister"`
	Dir       string      `yaml:"dir"`
	Redis     RedisConfig `yaml:"redis"`
}

// RedisConfig holds connection settings for the redis persister.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// ScheduleConfig holds the polling and persistence intervals.
type ScheduleConfig struct {
	CheckInterval   time.Duration `yaml:"check_interval"`
	PersistInterval time.Duration `yaml:"persist_interval"`
}

// BasketConfig controls basket cookie automation.
type BasketConfig struct {
	Enabled           bool `yaml:"enabled"`
	CookiesPerProduct int  `yaml:"cookies_per_product"`
	Concurrency       int  `yaml:"concurrency"`
}

// NotificationsConfig holds settings for every notification channel.
type NotificationsConfig struct {
	Discord  DiscordConfig   `yaml:"discord"`
	Telegram TelegramConfig  `yaml:"telegram"`
	Webhook  WebhookConfig   `yaml:"webhook"`
	Log      LogNotifyConfig `yaml:"log"`
}

// DiscordConfig holds Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
	Username   string `yaml:"username"`
}

// TelegramConfig holds Telegram bot settings.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
	APIURL   string `yaml:"api_url"`
}

// WebhookConfig holds settings for the generic JSON webhook.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// LogNotifyConfig enables writing notifications to the application log.
type LogNotifyConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// StoreConfig describes one storefront to poll.
type StoreConfig struct {
	ID                string            `yaml:"id"`
	Name              string            `yaml:"name"`
	BaseURL           string            `yaml:"base_url"`
	GraphQLURL        string            `yaml:"graphql_url"`
	SessionCookie     string            `yaml:"session_cookie"`
	Headers           map[string]string `yaml:"headers"`
	CheckOnlineStatus *bool             `yaml:"check_online_status"`
	CheckInAssortment bool              `yaml:"check_in_assortment"`
	URLReplacements   map[string]string `yaml:"url_replacements"`
	Magician          bool              `yaml:"magician"`
	TrackingParam     string            `yaml:"tracking_param"`
	ImageBaseURL      string            `yaml:"image_base_url"`
	RateLimit         RateLimitConfig   `yaml:"rate_limit"`
	MaxRetries        int               `yaml:"max_retries"`
	MaxPages          int               `yaml:"max_pages"`
	Basket            BasketMutation    `yaml:"basket"`
	Queries           []QueryConfig     `yaml:"queries"`
}

// OnlineStatusChecked reports whether the product online flag takes part
// in availability decisions. It defaults to true.
func (s StoreConfig) OnlineStatusChecked() bool {
	return s.CheckOnlineStatus == nil || *s.CheckOnlineStatus
}

// RateLimitConfig holds the client-side storefront request budget.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// BasketMutation names the persisted mutation that creates a basket.
type BasketMutation struct {
	Operation  string `yaml:"operation"`
	Hash       string `yaml:"hash"`
	CookieName string `yaml:"cookie_name"`
}

// QueryConfig describes one persisted GraphQL query to page through.
type QueryConfig struct {
	Name         string         `yaml:"name"`
	Kind         string         `yaml:"kind"`
	Operation    string         `yaml:"operation"`
	Hash         string         `yaml:"hash"`
	Variables    map[string]any `yaml:"variables"`
	ItemsPath    string         `yaml:"items_path"`
	PagesPath    string         `yaml:"pages_path"`
	PageVariable string         `yaml:"page_variable"`
}

// Load reads a YAML config file, loads a sibling .env file into the
// environment, expands ${VAR} references, applies defaults, and validates.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv sets variables from path without overriding ones already in
// the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyCooldownDefaults(&cfg.Cooldowns)
	applyScheduleDefaults(&cfg.Schedule)
	applyBasketDefaults(&cfg.Basket)
	applyLoggingDefaults(&cfg.Logging)
	for i := range cfg.Stores {
		applyStoreDefaults(&cfg.Stores[i])
	}
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Driver == "" {
		d.Driver = DriverSQLite
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
	if d.SQLitePath == "" {
		d.SQLitePath = "data/stock-tracker.db"
	}
}

func applyCooldownDefaults(c *CooldownsConfig) {
	if c.Buyable == 0 {
		c.Buyable = 5 * time.Minute
	}
	if c.NotAddable == 0 {
		c.NotAddable = 12 * time.Hour
	}
	if c.AddableNoCookies == 0 {
		c.AddableNoCookies = 24 * time.Hour
	}
	if c.AddableWithCookies == 0 {
		c.AddableWithCookies = 2 * time.Hour
	}
	if c.Basket == 0 {
		c.Basket = 8 * time.Hour
	}
	if c.Persister == "" {
		c.Persister = PersisterFile
	}
	if c.Dir == "" {
		c.Dir = "data/cooldowns"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "stock-tracker:cooldowns:"
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.CheckInterval == 0 {
		s.CheckInterval = time.Minute
	}
	if s.PersistInterval == 0 {
		s.PersistInterval = 5 * time.Minute
	}
}

func applyBasketDefaults(b *BasketConfig) {
	if b.CookiesPerProduct == 0 {
		b.CookiesPerProduct = 1
	}
	if b.Concurrency == 0 {
		b.Concurrency = 2
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applyStoreDefaults(s *StoreConfig) {
	if s.Name == "" {
		s.Name = s.ID
	}
	if s.RateLimit.PerSecond == 0 {
		s.RateLimit.PerSecond = 2
	}
	if s.RateLimit.Burst == 0 {
		s.RateLimit.Burst = 2
	}
	if s.MaxRetries == 0 {
		s.MaxRetries = 3
	}
	if s.MaxPages == 0 {
		s.MaxPages = 20
	}
	for i := range s.Queries {
		q := &s.Queries[i]
		if q.Name == "" {
			q.Name = fmt.Sprintf("%s-%d", q.Kind, i+1)
		}
	}
}

func validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateDatabase(&cfg.Database)...)
	errs = append(errs, validateCooldowns(&cfg.Cooldowns)...)

	if cfg.Schedule.CheckInterval < 0 || cfg.Schedule.PersistInterval < 0 {
		errs = append(errs, errors.New("schedule intervals must be positive"))
	}
	if cfg.Basket.CookiesPerProduct < 0 {
		errs = append(errs, errors.New("basket.cookies_per_product must not be negative"))
	}
	if cfg.Basket.Concurrency < 0 {
		errs = append(errs, errors.New("basket.concurrency must not be negative"))
	}

	errs = append(errs, validateNotifications(&cfg.Notifications)...)

	if len(cfg.Stores) == 0 {
		errs = append(errs, errors.New("at least one store is required"))
	}
	seen := make(map[string]bool, len(cfg.Stores))
	for i := range cfg.Stores {
		s := &cfg.Stores[i]
		if s.ID != "" && seen[s.ID] {
			errs = append(errs, fmt.Errorf("stores[%d]: duplicate id %q", i, s.ID))
		}
		seen[s.ID] = true
		errs = append(errs, validateStore(i, s, cfg.Basket.Enabled)...)
	}

	return errors.Join(errs...)
}

func validateDatabase(d *DatabaseConfig) []error {
	var errs []error
	switch d.Driver {
	case DriverPostgres:
		if d.Host == "" {
			errs = append(errs, errors.New("database.host is required for postgres"))
		}
		if d.Name == "" {
			errs = append(errs, errors.New("database.name is required for postgres"))
		}
	case DriverSQLite, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf(
			"database.driver must be %s, %s or %s, got %q",
			DriverPostgres, DriverSQLite, DriverMemory, d.Driver,
		))
	}
	return errs
}

func validateCooldowns(c *CooldownsConfig) []error {
	var errs []error
	for name, d := range map[string]time.Duration{
		"buyable":              c.Buyable,
		"not_addable":          c.NotAddable,
		"addable_no_cookies":   c.AddableNoCookies,
		"addable_with_cookies": c.AddableWithCookies,
		"basket":               c.Basket,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("cooldowns.%s must be positive, got %s", name, d))
		}
	}
	switch c.Persister {
	case PersisterFile, PersisterNone:
	case PersisterRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("cooldowns.redis.addr is required for the redis persister"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"cooldowns.persister must be %s, %s or %s, got %q",
			PersisterFile, PersisterRedis, PersisterNone, c.Persister,
		))
	}
	return errs
}

func validateNotifications(n *NotificationsConfig) []error {
	var errs []error
	if n.Discord.Enabled && n.Discord.WebhookURL == "" {
		errs = append(errs, errors.New("notifications.discord.webhook_url is required when enabled"))
	}
	if n.Telegram.Enabled && (n.Telegram.BotToken == "" || n.Telegram.ChatID == "") {
		errs = append(errs, errors.New("notifications.telegram.bot_token and chat_id are required when enabled"))
	}
	if n.Webhook.Enabled && n.Webhook.URL == "" {
		errs = append(errs, errors.New("notifications.webhook.url is required when enabled"))
	}
	return errs
}

func validateStore(i int, s *StoreConfig, basket bool) []error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, fmt.Errorf("stores[%d].id is required", i))
	}
	if s.BaseURL == "" {
		errs = append(errs, fmt.Errorf("stores[%d].base_url is required", i))
	}
	if s.GraphQLURL == "" {
		errs = append(errs, fmt.Errorf("stores[%d].graphql_url is required", i))
	}
	if s.RateLimit.PerSecond < 0 || s.RateLimit.Burst < 0 {
		errs = append(errs, fmt.Errorf("stores[%d].rate_limit must not be negative", i))
	}
	if basket && (s.Basket.Operation == "" || s.Basket.Hash == "") {
		errs = append(errs, fmt.Errorf(
			"stores[%d].basket.operation and hash are required when basket is enabled", i,
		))
	}
	if len(s.Queries) == 0 {
		errs = append(errs, fmt.Errorf("stores[%d]: at least one query is required", i))
	}
	for j := range s.Queries {
		q := &s.Queries[j]
		if q.Operation == "" || q.Hash == "" {
			errs = append(errs, fmt.Errorf("stores[%d].queries[%d]: operation and hash are required", i, j))
		}
		if !knownQueryKinds[q.Kind] && q.ItemsPath == "" {
			errs = append(errs, fmt.Errorf(
				"stores[%d].queries[%d]: unknown kind %q requires items_path", i, j, q.Kind,
			))
		}
	}
	return errs
}
