package config

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/sigcpef/personnel-api/internal/core/service"
)

const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	CORSOrigin string `env:"CORS_ORIGIN, default=*"`

	// TrustedProxies lists the proxy addresses (CIDR or bare IP) whose
	// X-Forwarded-For entries are believed. Empty means the socket peer is
	// the client.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Auth      AuthConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type AuthConfig struct {
	// JWTSecret has no default on purpose: the server refuses to start
	// without a strong secret.
	JWTSecret       string        `env:"JWT_SECRET, required"`
	TokenTTL        time.Duration `env:"JWT_EXPIRES_IN,   default=2h"`
	BcryptCost      int           `env:"BCRYPT_COST,      default=10"`
	HashConcurrency int           `env:"HASH_CONCURRENCY, default=0"`
}

type RateLimitConfig struct {
	Backend     string        `env:"RATE_LIMIT_BACKEND, default=memory"`
	MaxAttempts int           `env:"RATE_LIMIT_MAX,     default=10"`
	Window      time.Duration `env:"RATE_LIMIT_WINDOW,  default=60s"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,      default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,       default=sigcpef"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL, default=5"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig and
// validates it.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith is Load with an explicit variable source.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails closed on a weak JWT secret and rejects settings the
// server cannot run with.
func (c *Config) Validate() error {
	if err := service.CheckSecret(c.Auth.JWTSecret); err != nil {
		return fmt.Errorf("config: JWT_SECRET: %w (at least %d bytes required)", err, service.MinSecretLength)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config: JWT_EXPIRES_IN must be positive")
	}
	if c.RateLimit.MaxAttempts <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	if _, err := c.TrustedProxyNets(); err != nil {
		return err
	}
	switch c.RateLimit.Backend {
	case RateLimitMemory:
	case RateLimitRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: RATE_LIMIT_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("config: unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}
	return nil
}

// TrustedProxyNets parses TrustedProxies. A bare IP is a single-host range.
func (c *Config) TrustedProxyNets() ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("config: TRUSTED_PROXIES: invalid address %q", entry)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("config: TRUSTED_PROXIES: %w", err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
