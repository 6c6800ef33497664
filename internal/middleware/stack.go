package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// DefaultMiddlewareStack returns the middleware applied to every route, in
// order: request id, real IP, panic recovery, gzip, envelope panic handler
// and request logging.
func DefaultMiddlewareStack(logger *zap.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Compress(5),
		ErrorHandlingMiddleware(logger),
		LoggingMiddleware(logger),
	}
}
