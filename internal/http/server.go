package http

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"casa/internal/log"
	"casa/internal/metrics"
	"casa/internal/middleware/ratelimit"
	"casa/internal/middleware/security"
	"casa/internal/middleware/trace"
	"casa/internal/services"
	appweb "casa/web"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr string
	// WriteRequestsPerMinute limits POST requests per client.
	WriteRequestsPerMinute int
}

func DefaultConfig(addr string) Config {
	return Config{
		Addr:                   addr,
		WriteRequestsPerMinute: ratelimit.DefaultConfig().RequestsPerMinute,
	}
}

// Server serves the overview page and the ledger forms.
type Server struct {
	http.Server
	templates *template.Template
	service   *services.LedgerService
	metrics   *metrics.Metrics
	logger    *log.Logger
	limiter   *ratelimit.Limiter

	shutdownOnce sync.Once
}

func NewServer(cfg Config, service *services.LedgerService, m *metrics.Metrics, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default(log.ComponentHTTP)
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	tmpl, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		templates: tmpl,
		service:   service,
		metrics:   m,
		logger:    logger,
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.WriteRequestsPerMinute,
		}),
	}

	limited := s.limiter.Middleware(extractClientIP, func(r *http.Request) {
		s.metrics.IncrRateLimited()
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			"client_ip", extractClientIP(r))
	})
	static := security.StaticAssetMiddleware(86400)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("POST /add", limited(http.HandlerFunc(s.handleAdd)))
	mux.Handle("POST /transfer", limited(http.HandlerFunc(s.handleTransfer)))
	mux.HandleFunc("GET /manifest.json", handleManifest)
	mux.Handle("GET /icon.png", static(http.HandlerFunc(handleIcon)))
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleHealth)
	if m != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	}

	var handler http.Handler = mux
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = trace.NewMiddleware(logger, extractClientIP).Middleware(handler)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}
	return s, nil
}

// Shutdown stops the rate limiter and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(s.limiter.Stop)
	return s.Server.Shutdown(ctx)
}
