package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/kreditin/loan-origination/internal/config"
	"github.com/kreditin/loan-origination/internal/domain"
	"github.com/kreditin/loan-origination/internal/repository"
)

func main() {
	log.Println("Starting loan origination scheduler...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	applicationRepo := repository.NewApplicationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatalf("Invalid scheduler timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	setupCronJobs(c, cfg, applicationRepo, auditRepo)

	// Start the scheduler
	c.Start()
	log.Println("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, applicationRepo repository.ApplicationRepository, auditRepo repository.AuditRepository) {
	// Daily report of applications stuck in Pending (runs at midnight)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		reportStalePending(applicationRepo, cfg.Scheduler.StaleAge)
	})
	if err != nil {
		log.Printf("Error scheduling stale application report: %v", err)
	}

	// Weekly audit volume report (runs on Sundays at 9 AM)
	_, err = c.AddFunc("0 0 9 * * SUN", func() {
		reportAuditVolume(auditRepo)
	})
	if err != nil {
		log.Printf("Error scheduling audit volume report: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

func reportStalePending(applicationRepo repository.ApplicationRepository, staleAge time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-staleAge)
	count, err := applicationRepo.CountByStatusOlderThan(ctx, domain.StatusPending, cutoff)
	if err != nil {
		log.Printf("Stale application report failed: %v", err)
		return
	}

	log.Printf("Stale application report: %d applications pending since before %s", count, cutoff.Format(time.RFC3339))
}

func reportAuditVolume(auditRepo repository.AuditRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := auditRepo.Count(ctx)
	if err != nil {
		log.Printf("Audit volume report failed: %v", err)
		return
	}

	log.Printf("Audit volume report: %d entries recorded", count)
}
