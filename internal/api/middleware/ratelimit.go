package middleware

import (
	"context"
	"net"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/sigcpef/personnel-api/internal/core/domain"
	"github.com/sigcpef/personnel-api/internal/core/ports"
	"github.com/sigcpef/personnel-api/internal/pkg/metrics"
)

const storeTimeout = 500 * time.Millisecond

// limiterStore adapts a ports.RateLimiter to echo's RateLimiterStore.
type limiterStore struct {
	limiter ports.RateLimiter
	log     zerolog.Logger
}

// Allow fails open: a broken backend is logged and the request proceeds.
func (s *limiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	ok, err := s.limiter.Admit(ctx, identifier)
	if err != nil {
		s.log.Warn().Err(err).Msg("rate limiter unavailable, request admitted")
		return true, nil
	}
	return ok, nil
}

// ClientIP returns the extractor behind c.RealIP(). With no trusted proxies
// the socket peer is the client and forwarding headers are ignored. With
// trusted ranges, X-Forwarded-For is walked from the right and the first
// address outside those ranges is the client.
func ClientIP(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// RateLimit rejects a client once it exceeds the limiter's budget for the
// current window. The client key is c.RealIP(), so the echo instance must
// carry an IPExtractor built by ClientIP.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: &limiterStore{limiter: limiter, log: log},
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			metrics.RateLimitedTotal.Inc()
			log.Info().Str("client", identifier).Str("path", c.Path()).Msg("rate limit exceeded")
			return domain.ErrRateLimited
		},
	})
}
