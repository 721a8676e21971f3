// Package httpserver provides the HTTP server for LeakLab.
package httpserver

import (
	"net/http"

	"github.com/yndnr/leaklab-go/internal/server/httpserver/handler"
	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Handler serves the API endpoints.
	Handler *handler.Handler

	// Logger for request logging.
	Logger logger.Logger

	// RateLimit is the per-IP request rate (requests/second).
	// Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the per-IP burst allowance.
	RateBurst int
}

// NewRouter wires the handler into the middleware chain.
// Order: Recover -> RequestID -> RateLimit -> AccessLog -> Handler.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	middlewares := []Middleware{
		Recover(log),
		RequestID(),
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	middlewares = append(middlewares, AccessLog(log))

	return Chain(cfg.Handler, middlewares...)
}
