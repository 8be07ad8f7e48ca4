package api

import (
	"net/http"
	"time"

	"poi_network/internal/api/handler"
	apiMiddleware "poi_network/internal/api/middleware"
	"poi_network/internal/app/service"
	"poi_network/internal/common/security"
	"poi_network/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	problemService *service.ProblemService,
	solutionService *service.SolutionService,
	validationService *service.ValidationService,
	ledgerService *service.LedgerService,
	statsService *service.StatsService,
	m *metrics.Metrics,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(apiMiddleware.RequestLogger)
	r.Use(m.Middleware)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the Authorization: Bearer token, puts claims in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		userHandler := handler.NewUserHandler(authService, ledgerService)
		v1.Route("/users", userHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(problemService)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		solutionHandler := handler.NewSolutionHandler(solutionService)
		v1.Route("/solutions", solutionHandler.RegisterRoutes)

		validationHandler := handler.NewValidationHandler(validationService)
		v1.Route("/validations", validationHandler.RegisterRoutes)

		statsHandler := handler.NewStatsHandler(statsService)
		v1.Route("/stats", statsHandler.RegisterRoutes)
	})

	return r
}
