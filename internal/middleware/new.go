package middleware

import (
	"leaflet/pkg/log"
)

// Config holds the middleware knobs loaded from configuration.
type Config struct {
	// RateLimitPerMin is the allowed requests per minute per client IP. 0 disables limiting.
	RateLimitPerMin int
	AllowedOrigins  []string
}

type Middleware struct {
	l           log.Logger
	config      Config
	rateLimiter *rateLimiter
}

func New(l log.Logger, cfg Config) Middleware {
	mw := Middleware{
		l:      l,
		config: cfg,
	}
	if cfg.RateLimitPerMin > 0 {
		mw.rateLimiter = newRateLimiter(cfg.RateLimitPerMin)
	}
	return mw
}
