package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fundfolio/fund-tracker/internal/api"
	"github.com/fundfolio/fund-tracker/internal/config"
	"github.com/fundfolio/fund-tracker/internal/database"
	"github.com/fundfolio/fund-tracker/internal/services"
	"github.com/fundfolio/fund-tracker/internal/store"
	"github.com/fundfolio/fund-tracker/internal/tradedate"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database and store
	db, err := database.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	st := store.NewGormStore(db)

	// Initialize price feeds
	navFeed := services.NewNavFeedService(cfg.Feeds.NavBaseURL, cfg.Feeds.RequestTimeout)
	proxyFeed := services.NewProxyFeedService(cfg.Feeds.ProxyBaseURL, cfg.Feeds.RequestTimeout)
	if cfg.Feeds.ProxyBaseURL == "" {
		log.Println("Proxy feed base URL not configured; intraday estimates fall back to rate 0")
	}

	// Initialize services
	valuationService := services.NewValuationService(navFeed, proxyFeed)
	contributionService := services.NewContributionService(navFeed, st, st)
	snapshotService := services.NewSnapshotService(valuationService, st, st, cfg.Snapshot.Hour)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start snapshot worker in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in snapshot worker: %v - restarting in 30 seconds", r)
					}
				}()
				snapshotService.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Snapshot worker restarting after panic recovery...")
			}
		}
	}()

	// Schedule the catch-up pass in the reference timezone
	scheduler := cron.New(cron.WithLocation(tradedate.RefZone))
	_, err = scheduler.AddFunc(cfg.Contribution.CronSpec, func() {
		report, err := contributionService.RunCatchups(ctx, tradedate.Today())
		if err != nil {
			log.Printf("Scheduled catch-up pass failed: %v", err)
			return
		}
		if len(report.Failures) > 0 {
			log.Printf("Scheduled catch-up pass: %d plans failed and will retry on the next pass", len(report.Failures))
		}
	})
	if err != nil {
		log.Fatalf("Failed to register catch-up schedule %q: %v", cfg.Contribution.CronSpec, err)
	}
	scheduler.Start()

	// Setup router
	router := api.SetupRouter(api.RouterDeps{
		Store:        st,
		Valuation:    valuationService,
		Contribution: contributionService,
		NavFeed:      navFeed,
		CORSOrigins:  cfg.Server.CORSOrigins,
	})

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop background work
	cancel()
	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
