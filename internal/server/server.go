// Package server assembles the development API server: the products and
// users collections behind the json-server compatible handlers, wrapped in
// the middleware chain.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/restadmin/internal/config"
	"github.com/vyrodovalexey/restadmin/internal/handler"
	"github.com/vyrodovalexey/restadmin/internal/middleware"
	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/storage"
)

// HTTP server limits.
const (
	readTimeout       = 15 * time.Second
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
	maxHeaderBytes    = 1 << 20
	corsMaxAge        = 24 * time.Hour
)

// Server is the development API server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	config     *config.Config
	logger     *zap.Logger
}

// New creates a Server serving products and users.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	products storage.Storage[model.Product],
	users storage.Storage[model.User],
) *Server {
	s := &Server{
		router: mux.NewRouter(),
		config: cfg,
		logger: logger,
	}

	s.router.Use(s.middlewares()...)
	s.routes(products, users)

	s.httpServer = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	return s
}

// middlewares returns the chain applied to every matched route, outermost
// first.
func (s *Server) middlewares() []mux.MiddlewareFunc {
	chain := []middleware.Middleware{
		middleware.Recovery(s.logger),
		middleware.RequestID(),
	}
	if s.config.MetricsEnabled {
		chain = append(chain, middleware.Metrics())
	}
	chain = append(chain,
		middleware.Logging(s.logger),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodDelete,
				http.MethodOptions,
			},
			AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{handler.TotalCountHeader, middleware.RequestIDHeader},
			MaxAge:         corsMaxAge,
		}),
		middleware.RateLimit(s.config.RateLimitPerMin, s.logger),
	)

	out := make([]mux.MiddlewareFunc, len(chain))
	for i, m := range chain {
		out[i] = mux.MiddlewareFunc(m)
	}
	return out
}

// routes registers the health probe, both collections and the metrics
// endpoint.
func (s *Server) routes(products storage.Storage[model.Product], users storage.Storage[model.User]) {
	s.router.Handle("/health", handler.NewHealthHandler(s.logger)).Methods(http.MethodGet)

	handler.NewProductHandler(products, s.logger).RegisterRoutes(s.router)
	handler.NewUserHandler(users, s.logger).RegisterRoutes(s.router)

	if s.config.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	// Middleware only runs for matched routes, so preflight requests need a
	// route of their own. CORS answers them before this handler is reached.
	s.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown. It returns nil after a graceful
// shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("starting server",
		zap.String("address", ln.Addr().String()),
		zap.Bool("metrics_enabled", s.config.MetricsEnabled),
		zap.Int("rate_limit_per_min", s.config.RateLimitPerMin),
	)

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving http: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Router returns the server's router.
func (s *Server) Router() *mux.Router {
	return s.router
}
