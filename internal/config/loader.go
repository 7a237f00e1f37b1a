package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpattn/leadsathi/internal/db"

	"github.com/spf13/viper"
)

const (
	BackendXLSX     = "xlsx"
	BackendPostgres = "postgres"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// LeadsConfig holds the lead table settings shared by ingestion and analytics.
type LeadsConfig struct {
	SheetName        string
	UTCOffsetMinutes int
	MaxTrendDays     int
	MaxRecentLimit   int
}

// StoreConfig selects the Record Store backend.
type StoreConfig struct {
	Backend  string
	XLSXPath string
}

// CacheConfig configures the optional redis analytics cache.
type CacheConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// EventsConfig configures the optional kafka lead-captured stream.
type EventsConfig struct {
	Brokers      []string
	Topic        string
	RequiredAcks string
}

// Enabled reports whether any broker is configured.
func (c EventsConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string
	Format string
}

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig
	Leads    LeadsConfig
	Store    StoreConfig
	Database db.Config
	Cache    CacheConfig
	Events   EventsConfig
	Log      LogConfig
}

// Default returns the configuration used when no file or env overrides exist.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Leads: LeadsConfig{
			SheetName:        "Leads",
			UTCOffsetMinutes: 330,
			MaxTrendDays:     365,
			MaxRecentLimit:   500,
		},
		Store: StoreConfig{
			Backend:  BackendXLSX,
			XLSXPath: "./data/leads.xlsx",
		},
		Database: db.DefaultConfig(),
		Cache: CacheConfig{
			Addr:   "localhost:6379",
			TTL:    5 * time.Minute,
			Prefix: "leadsathi",
		},
		Events: EventsConfig{
			Topic:        "leads.captured",
			RequiredAcks: "one",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Location returns the fixed civil offset every timestamp is rendered in.
func (c Config) Location() *time.Location {
	offset := c.Leads.UTCOffsetMinutes
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, offset/60, offset%60)
	return time.FixedZone(name, c.Leads.UTCOffsetMinutes*60)
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendXLSX:
		if strings.TrimSpace(c.Store.XLSXPath) == "" {
			return errors.New("store.xlsx_path is required for the xlsx backend")
		}
	case BackendPostgres:
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	if strings.TrimSpace(c.Leads.SheetName) == "" {
		return errors.New("leads.sheet_name is required")
	}
	if c.Leads.UTCOffsetMinutes < -14*60 || c.Leads.UTCOffsetMinutes > 14*60 {
		return fmt.Errorf("leads.utc_offset_minutes %d out of range", c.Leads.UTCOffsetMinutes)
	}
	if c.Leads.MaxTrendDays <= 0 || c.Leads.MaxRecentLimit <= 0 {
		return errors.New("leads.max_trend_days and leads.max_recent_limit must be positive")
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return errors.New("cache.addr is required when the cache is enabled")
	}
	if c.Events.Enabled() && c.Events.Topic == "" {
		return errors.New("events.topic is required when brokers are configured")
	}
	return nil
}

// Load reads config.yaml from configPath when present and overlays
// LEADSATHI_* environment variables, e.g. LEADSATHI_STORE_BACKEND.
func Load(configPath string) (Config, error) {
	// Start with default
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.SetEnvPrefix("LEADSATHI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.Server.Addr = v.GetString("server.addr")
	cfg.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	cfg.Server.WriteTimeout = v.GetDuration("server.write_timeout")
	cfg.Server.IdleTimeout = v.GetDuration("server.idle_timeout")
	cfg.Server.AllowedOrigins = splitList(v.GetStringSlice("cors.allowed_origins"))

	cfg.Leads.SheetName = v.GetString("leads.sheet_name")
	cfg.Leads.UTCOffsetMinutes = v.GetInt("leads.utc_offset_minutes")
	cfg.Leads.MaxTrendDays = v.GetInt("leads.max_trend_days")
	cfg.Leads.MaxRecentLimit = v.GetInt("leads.max_recent_limit")

	cfg.Store.Backend = strings.ToLower(v.GetString("store.backend"))
	cfg.Store.XLSXPath = v.GetString("store.xlsx_path")

	cfg.Database.Host = v.GetString("database.host")
	cfg.Database.Port = v.GetInt("database.port")
	cfg.Database.User = v.GetString("database.user")
	cfg.Database.Password = v.GetString("database.password")
	cfg.Database.DBName = v.GetString("database.dbname")
	cfg.Database.SSLMode = v.GetString("database.sslmode")
	cfg.Database.MaxConns = v.GetInt32("database.max_conns")
	cfg.Database.MinConns = v.GetInt32("database.min_conns")

	cfg.Cache.Enabled = v.GetBool("cache.enabled")
	cfg.Cache.Addr = v.GetString("cache.addr")
	cfg.Cache.Password = v.GetString("cache.password")
	cfg.Cache.DB = v.GetInt("cache.db")
	cfg.Cache.TTL = v.GetDuration("cache.ttl")
	cfg.Cache.Prefix = v.GetString("cache.prefix")

	cfg.Events.Brokers = splitList(v.GetStringSlice("events.brokers"))
	cfg.Events.Topic = v.GetString("events.topic")
	cfg.Events.RequiredAcks = v.GetString("events.required_acks")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can see it even when the
// config file does not mention it.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", cfg.Server.IdleTimeout)
	v.SetDefault("cors.allowed_origins", cfg.Server.AllowedOrigins)

	v.SetDefault("leads.sheet_name", cfg.Leads.SheetName)
	v.SetDefault("leads.utc_offset_minutes", cfg.Leads.UTCOffsetMinutes)
	v.SetDefault("leads.max_trend_days", cfg.Leads.MaxTrendDays)
	v.SetDefault("leads.max_recent_limit", cfg.Leads.MaxRecentLimit)

	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.xlsx_path", cfg.Store.XLSXPath)

	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", cfg.Database.User)
	v.SetDefault("database.password", cfg.Database.Password)
	v.SetDefault("database.dbname", cfg.Database.DBName)
	v.SetDefault("database.sslmode", cfg.Database.SSLMode)
	v.SetDefault("database.max_conns", cfg.Database.MaxConns)
	v.SetDefault("database.min_conns", cfg.Database.MinConns)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.addr", cfg.Cache.Addr)
	v.SetDefault("cache.password", cfg.Cache.Password)
	v.SetDefault("cache.db", cfg.Cache.DB)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)
	v.SetDefault("cache.prefix", cfg.Cache.Prefix)

	v.SetDefault("events.brokers", []string{})
	v.SetDefault("events.topic", cfg.Events.Topic)
	v.SetDefault("events.required_acks", cfg.Events.RequiredAcks)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// splitList also splits comma separated entries, which is how list values
// arrive from environment variables.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
