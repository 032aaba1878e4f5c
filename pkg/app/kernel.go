package app

import (
	"net/http"
	"time"

	"github.com/freshmandi/freshmandi/pkg/metrics"
	"github.com/freshmandi/freshmandi/pkg/middleware"
	"github.com/freshmandi/freshmandi/pkg/reqid"
	"github.com/freshmandi/freshmandi/pkg/router"
)

// BuildHandler constructs the HTTP handler: the global middleware stack,
// the /metrics endpoint, then every route-registration callback in order.
func BuildHandler(routeFns ...func(*router.Router)) http.Handler {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery           — catches panics before they kill the goroutine
	//  3. Request ID         — inject unique ID before anything logs
	//  4. Logger             — logs request_id from context
	//  5. CORS               — set CORS headers
	//  6. Rate limiter       — reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	// Prometheus endpoint — no auth, no rate limit.
	r.HandleFunc("/metrics", metrics.Handler())

	for _, fn := range routeFns {
		fn(r)
	}

	return r.Handler()
}
