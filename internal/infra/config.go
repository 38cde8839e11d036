package infra

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/linkdesk/videolink/internal/auth"
	"github.com/linkdesk/videolink/internal/domain"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	PGHost      string `env:"PGHOST" envDefault:"localhost"`
	PGPort      int    `env:"PGPORT" envDefault:"5432"`
	PGUser      string `env:"PGUSER" envDefault:"videolink"`
	PGPassword  string `env:"PGPASSWORD"`
	PGDatabase  string `env:"PGDATABASE" envDefault:"videolink"`
	PGSSLMode   string `env:"PGSSLMODE" envDefault:"prefer"`

	RunMigrations bool `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Server
	Port               int    `env:"PORT" envDefault:"3000"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	LogLevel           string `env:"LOG_LEVEL" envDefault:"info"`

	// Admins
	MainAdminPassword string `env:"MAIN_ADMIN_PASSWORD"`
	VideoLinkPolicy   string `env:"VIDEO_LINK_POLICY" envDefault:"any_admin"`

	// Outbox
	OutboxEnabled      bool          `env:"OUTBOX_ENABLED" envDefault:"false"`
	OutboxPollInterval time.Duration `env:"OUTBOX_POLL_INTERVAL" envDefault:"2s"`
	OutboxBatchSize    int           `env:"OUTBOX_BATCH_SIZE" envDefault:"100"`

	// Consecutive publish failures before the relay pauses, and for how long.
	OutboxBreakerThreshold int           `env:"OUTBOX_BREAKER_THRESHOLD" envDefault:"5"`
	OutboxBreakerReset     time.Duration `env:"OUTBOX_BREAKER_RESET" envDefault:"30s"`

	// Kafka
	KafkaBrokers     string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	KafkaEnabled     bool   `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaTopicPrefix string `env:"KAFKA_TOPIC_PREFIX" envDefault:"videolink"`
}

// LoadConfig parses environment variables into a Config struct.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if _, err := auth.ParsePolicy(c.VideoLinkPolicy); err != nil {
		return fmt.Errorf("VIDEO_LINK_POLICY: %w", err)
	}
	if _, err := c.SlogLevel(); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if len(c.MainAdminPassword) > domain.MaxPasswordBytes {
		return fmt.Errorf("MAIN_ADMIN_PASSWORD must be at most %d bytes", domain.MaxPasswordBytes)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d is out of range", c.Port)
	}
	if c.OutboxBatchSize <= 0 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.OutboxBatchSize)
	}
	if c.OutboxBreakerThreshold <= 0 {
		return fmt.Errorf("OUTBOX_BREAKER_THRESHOLD must be positive, got %d", c.OutboxBreakerThreshold)
	}
	if c.OutboxPollInterval <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive, got %s", c.OutboxPollInterval)
	}
	return nil
}

// Policy returns the parsed video link policy. Call Validate first.
func (c *Config) Policy() auth.Policy {
	p, _ := auth.ParsePolicy(c.VideoLinkPolicy)
	return p
}

// SlogLevel parses LOG_LEVEL (debug, info, warn, error).
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// DSN returns the PostgreSQL connection string, preferring DATABASE_URL if set.
// It carries credentials and must not be logged.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.PGHost, strconv.Itoa(c.PGPort)),
		Path:     "/" + c.PGDatabase,
		RawQuery: url.Values{"sslmode": {c.PGSSLMode}}.Encode(),
	}
	if c.PGPassword != "" {
		u.User = url.UserPassword(c.PGUser, c.PGPassword)
	} else {
		u.User = url.User(c.PGUser)
	}
	return u.String()
}

// LogValue implements slog.LogValuer, leaving out credentials.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("database_url_set", c.DatabaseURL != ""),
		slog.String("pg_host", c.PGHost),
		slog.Int("pg_port", c.PGPort),
		slog.String("pg_database", c.PGDatabase),
		slog.Int("port", c.Port),
		slog.String("video_link_policy", c.VideoLinkPolicy),
		slog.Bool("main_admin_password_set", c.MainAdminPassword != ""),
		slog.Bool("run_migrations", c.RunMigrations),
		slog.Bool("outbox_enabled", c.OutboxEnabled),
		slog.Bool("kafka_enabled", c.KafkaEnabled),
		slog.String("log_level", c.LogLevel),
	)
}
