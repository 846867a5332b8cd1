package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/ldtnet/pdv-api/internal/application/dto"
)

// limiterIdleTTL tiempo sin peticiones tras el cual se olvida el bucket de una IP.
const limiterIdleTTL = 10 * time.Minute

// ipRateLimiter un token bucket por IP; las IPs inactivas expiran en la caché.
type ipRateLimiter struct {
	mu  sync.Mutex
	ips *cache.Cache
	r   rate.Limit
	b   int
}

func newIPRateLimiter(r rate.Limit, b int, ttl time.Duration) *ipRateLimiter {
	return &ipRateLimiter{ips: cache.New(ttl, 2*ttl), r: r, b: b}
}

func (l *ipRateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.ips.Get(key)
	if !ok {
		lim = rate.NewLimiter(l.r, l.b)
	}
	// Cada petición renueva el TTL.
	l.ips.Set(key, lim, cache.DefaultExpiration)
	return lim.(*rate.Limiter)
}

// RateLimitByIP limita las peticiones por IP (r por segundo, ráfaga b).
// Protege las rutas públicas que disparan llamadas a BrasilAPI y Cora.
// Con r <= 0 no limita.
func RateLimitByIP(r float64, b int) fiber.Handler {
	if r <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if b <= 0 {
		b = 1
	}
	limits := newIPRateLimiter(rate.Limit(r), b, limiterIdleTTL)
	return func(c *fiber.Ctx) error {
		if !limits.limiter(c.IP()).Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones desde esta IP"})
		}
		return c.Next()
	}
}
