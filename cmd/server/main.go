package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poi_network/internal/api"
	"poi_network/internal/app/service"
	"poi_network/internal/common/security"
	"poi_network/internal/domain/repository"
	"poi_network/internal/platform/cache"
	"poi_network/internal/platform/config"
	"poi_network/internal/platform/database"
	"poi_network/internal/platform/logger"
	"poi_network/internal/platform/metrics"
)

func main() {
	// 1. Load Configuration
	config.Load()

	// 2. Logger & Metrics
	log := logger.Init("poi-network")
	m := metrics.New("api")

	// 3. Initialize JWT
	security.InitJWT()

	// 4. Initialize Database
	database.Connect()
	defer database.Close()
	log.Info("Database connected")

	// 5. Initialize Redis (stats cache)
	cache.ConnectRedis()
	defer cache.CloseRedis()
	log.Info("Redis connected")

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	problemRepo := repository.NewPgProblemRepository(database.DB)
	solutionRepo := repository.NewPgSolutionRepository(database.DB)
	validationRepo := repository.NewPgValidationRepository(database.DB)
	transactionRepo := repository.NewPgTransactionRepository(database.DB)

	// 7. Initialize Services
	authService := service.NewAuthService(userRepo, transactionRepo, database.DB)
	problemService := service.NewProblemService(problemRepo, solutionRepo, userRepo, transactionRepo, database.DB)
	solutionService := service.NewSolutionService(solutionRepo, problemRepo, userRepo, database.DB)
	validationService := service.NewValidationService(validationRepo, solutionRepo, problemRepo, userRepo, transactionRepo, database.DB)
	ledgerService := service.NewLedgerService(transactionRepo, userRepo)
	statsService := service.NewStatsService(problemRepo, solutionRepo, userRepo, cache.RDB)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, problemService, solutionService, validationService, ledgerService, statsService, m)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Info("Server stopped gracefully")
}
