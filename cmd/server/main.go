package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/kreditin/loan-origination/internal/config"
	"github.com/kreditin/loan-origination/internal/domain"
	"github.com/kreditin/loan-origination/internal/handler"
	"github.com/kreditin/loan-origination/internal/repository"
	"github.com/kreditin/loan-origination/internal/service"
	"github.com/kreditin/loan-origination/pkg/response"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	applicantRepo := repository.NewApplicantRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statusRepo := repository.NewStatusRepository(db)

	// Load the status catalog once; it is immutable reference data
	catalog, err := loadStatusCatalog(statusRepo)
	if err != nil {
		log.Fatalf("Failed to load status catalog: %v", err)
	}

	// Initialize service and handlers
	loanService := service.NewLoanService(applicantRepo, applicationRepo, auditRepo, catalog, redisClient, cfg)
	loanHandler := handler.NewLoanHandler(loanService, cfg)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout)

	// Setup routes
	router := setupRoutes(loanHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.LoggingMiddleware(response.CORSMiddleware(router)),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func loadStatusCatalog(statusRepo repository.StatusRepository) (*domain.StatusCatalog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	statuses, err := statusRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	log.Printf("Loaded %d statuses into the catalog", len(statuses))
	return domain.NewStatusCatalog(statuses), nil
}

func setupRoutes(loanHandler *handler.LoanHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/applicants", loanHandler.CreateApplicant).Methods("POST")
	api.HandleFunc("/applicants/{applicantId}", loanHandler.GetApplicant).Methods("GET")
	api.HandleFunc("/applications", loanHandler.SubmitApplication).Methods("POST")
	api.HandleFunc("/applications/{applicationId}", loanHandler.GetDetail).Methods("GET")
	api.HandleFunc("/applications/{applicationId}/status", loanHandler.SetStatus).Methods("PUT")
	api.HandleFunc("/audit", loanHandler.RecordAudit).Methods("POST")
	api.HandleFunc("/statuses", loanHandler.ListStatuses).Methods("GET")

	return router
}
