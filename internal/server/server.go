package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"catalog-api/internal/config"
	"catalog-api/internal/logger"
	custommiddleware "catalog-api/internal/middleware"
	"catalog-api/internal/service"
	"catalog-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  *Store
}

func NewServer(cfg *config.Config, logger *zap.Logger, store *Store) *Server {
	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      NewRouter(cfg, logger, store),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  store,
	}

	return server
}

// NewRouter wires the middleware stack, operational endpoints and product
// routes over store.
func NewRouter(cfg *config.Config, log *zap.Logger, store *Store) http.Handler {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack(log)...)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))
	router.Use(custommiddleware.PrometheusMetrics(logger.ServiceName))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := store.Conn.Health(r.Context())
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		custommiddleware.RespondWithJSON(w, status, health)
	})
	router.Handle("/metrics", promhttp.Handler())

	productService := service.NewProductService(store.Products, store.Categories)
	transport.NewProductHandler(productService, log).RegisterRoutes(router)

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.Conn.Close(ctx); err != nil {
		s.logger.Error("Failed to close store connection", zap.Error(err))
	}

	s.logger.Sync()
	return nil
}
