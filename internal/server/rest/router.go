package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"github.com/dmitrijs2005/pulsecheck/internal/server/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// routes maps a trimmed path to its method handlers.
type routes map[string]map[string]gin.HandlerFunc

// RouterOptions carries the optional middleware settings.
type RouterOptions struct {
	Metrics *observability.Metrics
	// Tracing enables otelgin spans; the global tracer provider is used.
	Tracing bool
	// RateLimitRPS <= 0 disables the limiter.
	RateLimitRPS   float64
	RateLimitBurst int
}

func (h *Handlers) routes() routes {
	return routes{
		"ping": {
			http.MethodGet: h.ping,
		},
		"users": {
			http.MethodPost:   h.createUser,
			http.MethodGet:    h.getUser,
			http.MethodPut:    h.updateUser,
			http.MethodDelete: h.deleteUser,
		},
		"tokens": {
			http.MethodPost:   h.createToken,
			http.MethodGet:    h.getToken,
			http.MethodPut:    h.renewToken,
			http.MethodDelete: h.deleteToken,
		},
		"checks": {
			http.MethodPost:   h.createCheck,
			http.MethodGet:    h.getCheck,
			http.MethodPut:    h.updateCheck,
			http.MethodDelete: h.deleteCheck,
		},
	}
}

// NewRouter builds the gin engine. The dispatch table is fixed here and not
// modified afterwards.
func NewRouter(h *Handlers, logger logging.Logger, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		logger.Error(c.Request.Context(), "panic recovered", "panic", rec)
		abortWith(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}))
	r.Use(requestID())
	if opts.Tracing {
		r.Use(otelgin.Middleware(observability.ServiceName))
	}
	if opts.Metrics != nil {
		r.Use(metricsMiddleware(opts.Metrics))
	}
	r.Use(requestLogger(logger))
	if opts.RateLimitRPS > 0 {
		r.Use(rateLimit(newIPLimiter(opts.RateLimitRPS, opts.RateLimitBurst), opts.Metrics))
	}

	for path, methods := range h.routes() {
		for method, handler := range methods {
			r.Handle(method, "/"+path, handler)
		}
	}

	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	r.NoRoute(func(c *gin.Context) {
		abortWith(c, http.StatusNotFound, CodeNotFound, "not found")
	})
	r.NoMethod(func(c *gin.Context) {
		abortWith(c, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	return r
}

// Handler trims leading and trailing slashes from the path before routing,
// so "/users/" and "users" reach the same handler.
func Handler(engine *gin.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = "/" + strings.Trim(r.URL.Path, "/")
		r.URL.RawPath = ""
		engine.ServeHTTP(w, r)
	})
}
