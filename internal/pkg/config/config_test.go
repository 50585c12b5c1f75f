package config

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/sigcpef/personnel-api/internal/core/service"
)

const strongSecret = "k3y-that-is-long-enough-for-hs256-signing"

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{"JWT_SECRET": strongSecret})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || !cfg.IsDevelopment() {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour || cfg.Auth.BcryptCost != 10 {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.RateLimit.Backend != RateLimitMemory || cfg.RateLimit.MaxAttempts != 10 || cfg.RateLimit.Window != time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" || cfg.Mongo.Database != "sigcpef" || cfg.Mongo.MaxPoolSize != 5 {
		t.Fatalf("unexpected mongo defaults: %+v", cfg.Mongo)
	}
	if cfg.Audit.Workers != 4 || cfg.CORSOrigin != "*" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":         strongSecret,
		"ENV":                "production",
		"JWT_EXPIRES_IN":     "30m",
		"RATE_LIMIT_BACKEND": "redis",
		"REDIS_ADDR":         "redis:6379",
		"MONGO_MAX_POOL":     "20",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IsDevelopment() || cfg.Auth.TokenTTL != 30*time.Minute || cfg.Redis.Addr != "redis:6379" || cfg.Mongo.MaxPoolSize != 20 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	if _, err := load(t, map[string]string{}); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoad_WeakSecretFailsClosed(t *testing.T) {
	for _, secret := range []string{"changeme", "short-secret", strings.Repeat(" ", 40)} {
		_, err := load(t, map[string]string{"JWT_SECRET": secret})
		if !errors.Is(err, service.ErrWeakSecret) {
			t.Fatalf("secret %q: expected ErrWeakSecret, got %v", secret, err)
		}
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"redis without addr", map[string]string{"RATE_LIMIT_BACKEND": "redis"}, "REDIS_ADDR"},
		{"unknown backend", map[string]string{"RATE_LIMIT_BACKEND": "memcached"}, "RATE_LIMIT_BACKEND"},
		{"zero attempts", map[string]string{"RATE_LIMIT_MAX": "0"}, "RATE_LIMIT_MAX"},
		{"negative ttl", map[string]string{"JWT_EXPIRES_IN": "-1m"}, "JWT_EXPIRES_IN"},
		{"bad proxy range", map[string]string{"TRUSTED_PROXIES": "10.0.0.0/33"}, "TRUSTED_PROXIES"},
		{"bad proxy address", map[string]string{"TRUSTED_PROXIES": "proxy.local"}, "TRUSTED_PROXIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.env["JWT_SECRET"] = strongSecret
			_, err := load(t, tt.env)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestTrustedProxyNets(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":      strongSecret,
		"TRUSTED_PROXIES": "10.0.0.0/8, 172.16.0.1,fd00::/8",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nets, err := cfg.TrustedProxyNets()
	if err != nil {
		t.Fatalf("TrustedProxyNets: %v", err)
	}
	if len(nets) != 3 {
		t.Fatalf("expected 3 ranges, got %v", nets)
	}
	if got := nets[1].String(); got != "172.16.0.1/32" {
		t.Fatalf("bare IP must become a host range, got %s", got)
	}
	if !nets[0].Contains(net.ParseIP("10.1.2.3")) || nets[0].Contains(net.ParseIP("11.0.0.1")) {
		t.Fatalf("unexpected first range %s", nets[0])
	}
}

func TestTrustedProxyNets_EmptyByDefault(t *testing.T) {
	cfg, err := load(t, map[string]string{"JWT_SECRET": strongSecret})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nets, _ := cfg.TrustedProxyNets(); len(nets) != 0 {
		t.Fatalf("expected no trusted proxies, got %v", nets)
	}
}
