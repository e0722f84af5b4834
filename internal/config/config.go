package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"
	DriverMemory   = "memory"
)

// Delivery modes for live chat messages.
//
//	server: the persisted record is published by the server after append
//	relay:  chat frames pushed by clients are relayed verbatim
//	dual:   both of the above
const (
	DeliveryServer = "server"
	DeliveryRelay  = "relay"
	DeliveryDual   = "dual"
)

// Config holds process configuration read from the environment.
type Config struct {
	Port        int    `env:"PORT,default=8080"`
	CORSOrigins string `env:"CORS_ORIGINS,default=http://localhost:3000"`

	StoreDriver string `env:"STORE_DRIVER,default=postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	BadgerPath  string `env:"BADGER_PATH,default=./data/badger"`

	JWTSecret       string        `env:"JWT_SECRET,required=true"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,default=15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL,default=168h"`
	CookieSecure    bool          `env:"COOKIE_SECURE,default=false"`
	RateLimit       bool          `env:"RATE_LIMIT,default=true"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogPretty bool   `env:"LOG_PRETTY,default=false"`

	DeliveryMode             string `env:"DELIVERY_MODE,default=server"`
	FriendStatusRequireParty bool   `env:"FRIEND_STATUS_REQUIRE_PARTY,default=false"`

	WSSendBuffer     int           `env:"WS_SEND_BUFFER,default=256"`
	WSMaxMessageSize int64         `env:"WS_MAX_MESSAGE_SIZE,default=65536"`
	WSPingInterval   time.Duration `env:"WS_PING_INTERVAL,default=54s"`
	WSPongWait       time.Duration `env:"WS_PONG_WAIT,default=60s"`
	WSWriteWait      time.Duration `env:"WS_WRITE_WAIT,default=10s"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnviron(os.Environ())
}

// FromEnviron builds a Config from KEY=VALUE pairs.
func FromEnviron(environ []string) (Config, error) {
	es, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.DeliveryMode = strings.ToLower(strings.TrimSpace(cfg.DeliveryMode))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enum values and driver-specific requirements.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	case DriverBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required for the %s driver", DriverBadger)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.DeliveryMode {
	case DeliveryServer, DeliveryRelay, DeliveryDual:
	default:
		return fmt.Errorf("unknown DELIVERY_MODE %q", c.DeliveryMode)
	}

	if c.WSSendBuffer <= 0 {
		return fmt.Errorf("WS_SEND_BUFFER must be positive, got %d", c.WSSendBuffer)
	}
	if c.WSPingInterval >= c.WSPongWait {
		return fmt.Errorf("WS_PING_INTERVAL (%s) must be shorter than WS_PONG_WAIT (%s)", c.WSPingInterval, c.WSPongWait)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
