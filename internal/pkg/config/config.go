package config

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session storage backends.
const (
	StoreFile  = "file"
	StoreRedis = "redis"
	StoreMongo = "mongo"
)

type Config struct {
	Port      string `env:"PORT,       default=3000"`
	Host      string `env:"HOST,       default=127.0.0.1"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	API          APIConfig
	Realtime     RealtimeConfig
	Session      SessionConfig
	Notification NotificationConfig
	Mongo        MongoConfig
	Redis        RedisConfig
}

// APIConfig points at the remote REST backend.
type APIConfig struct {
	BaseURL string        `env:"API_BASE_URL, default=http://localhost:5000/api"`
	Timeout time.Duration `env:"HTTP_TIMEOUT, default=15s"`
}

type RealtimeConfig struct {
	URL               string        `env:"REALTIME_URL,                default=ws://localhost:5000/ws"`
	ReconnectInterval time.Duration `env:"REALTIME_RECONNECT_INTERVAL, default=2s"`
}

type SessionConfig struct {
	Store string `env:"SESSION_STORE, default=file"`
	Key   string `env:"SESSION_KEY,   default=telemed:session"`
	File  string `env:"SESSION_FILE,  default=.telemed/session.json"`
}

type NotificationConfig struct {
	// PollInterval of zero leaves refreshes to realtime signals only.
	PollInterval time.Duration `env:"NOTIFICATION_POLL_INTERVAL, default=0s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=telemed_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Addr is the listen address of the local HTTP surface.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from the given lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case StoreFile, StoreRedis, StoreMongo:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.Notification.PollInterval < 0 {
		return fmt.Errorf("NOTIFICATION_POLL_INTERVAL must not be negative")
	}
	return nil
}
