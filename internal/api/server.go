package api

import (
	"net/http"
	"time"

	"github.com/futig/fund-faq/internal/api/docs"
	faqapi "github.com/futig/fund-faq/internal/api/faq"
	"github.com/futig/fund-faq/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router.
// timeout bounds every request and should exceed the generation deadline.
func SetupRouter(faqHandler *faqapi.Handler, timeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Timeout(timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	docs.RegisterRoutes(r)
	faqapi.RegisterRoutes(r, faqHandler)

	return r
}
