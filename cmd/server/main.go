package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking-service/internal/infrastructure/config"
	"clinic-booking-service/internal/infrastructure/oauth"
	"clinic-booking-service/internal/infrastructure/persistence"
	"clinic-booking-service/internal/interface/mailer"
	"clinic-booking-service/internal/interface/repository"
	"clinic-booking-service/internal/usecase"
	"clinic-booking-service/pkg/cache"
	"clinic-booking-service/pkg/logger"
	"clinic-booking-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Clinic Booking Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up PostgreSQL connection
	log.Info("Connecting to PostgreSQL")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	if err := gormDB.AutoMigrate(
		&repository.Bookings{},
		&repository.Reminders{},
		&repository.InventoryItems{},
		&repository.ServiceConsumables{},
		&repository.ClinicServices{},
	); err != nil {
		log.Fatal("Failed to run migrations", "error", err)
	}
	if err := persistence.EnsureBookingSlotIndex(gormDB); err != nil {
		log.Fatal("Failed to create booking slot index", "error", err)
	}

	// Set up MongoDB connection for the audit log
	log.Info("Connecting to MongoDB")
	mongoClient, mongoDB, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword, cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	// Set up repositories
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	reminderRepo := repository.NewGormReminderRepository(gormDB)
	inventoryRepo := repository.NewGormInventoryRepository(gormDB)
	serviceRepo := repository.NewGormServiceRepository(gormDB)
	auditRepo := repository.NewMongoAuditRepository(mongoDB)

	appMetrics := metrics.NewMetrics("clinic_booking")

	// Set up outbound channels
	router := mailer.NewChannelRouter(log)

	if cfg.GmailClientID != "" {
		gmailOAuth := oauth.NewGmailOAuth(cfg.GmailClientID, cfg.GmailClientSecret, cfg.GmailRefreshToken, log)
		gmailSender, err := mailer.NewGmailSender(ctx, gmailOAuth.GetTokenSource(ctx), cfg.GmailSender, log)
		if err != nil {
			log.Fatal("Failed to create Gmail sender", "error", err)
		}
		router.Register("EMAIL", gmailSender)
	} else {
		log.Warn("Gmail credentials not configured, email channel disabled")
	}

	if cfg.SMSGatewayEndpoint != "" {
		router.Register("SMS", mailer.NewSMSSender(cfg.SMSGatewayEndpoint, cfg.SMSGatewayToken, log))
	} else {
		log.Warn("SMS gateway not configured, sms channel disabled")
	}

	// Set up consumers and the dispatcher; subscription order is broadcast order
	reminderScheduler := usecase.NewReminderScheduler(reminderRepo, router, usecase.ReminderSchedulerConfig{
		Enabled:   cfg.RemindersEnabled,
		LeadHours: cfg.ReminderLeadHours,
	}, log, appMetrics)
	inventoryMonitor := usecase.NewInventoryMonitor(inventoryRepo, router,
		cfg.AlertRecipientName, cfg.AlertRecipientEmail, log, appMetrics)

	dispatcher := usecase.NewBookingDispatcher(log, appMetrics)
	dispatcher.Subscribe(usecase.NewNotificationConsumer(router, log))
	dispatcher.Subscribe(usecase.NewAuditConsumer(auditRepo, log))
	dispatcher.Subscribe(reminderScheduler)
	dispatcher.Subscribe(inventoryMonitor)

	// Set up services
	aggregateCache := cache.NewCache(cfg.CacheDefaultTTL)
	validationChain := usecase.NewValidationChain(bookingRepo, inventoryRepo, log)
	bookingService := usecase.NewBookingService(bookingRepo, serviceRepo, validationChain, dispatcher, aggregateCache, log, appMetrics)
	dashboardService := usecase.NewDashboardService(bookingRepo, aggregateCache, log, appMetrics)

	// Start the reminder sweep in a goroutine
	go func() {
		sweepTicker := time.NewTicker(cfg.ReminderSweep)
		defer sweepTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Reminder sweep stopped")
				return
			case <-sweepTicker.C:
				if err := reminderScheduler.SweepDue(ctx); err != nil {
					log.Error("Error sweeping due reminders", "error", err)
				}
			}
		}
	}()

	// Start the auto-cancel sweep for never-confirmed bookings in a goroutine
	go func() {
		cancelTicker := time.NewTicker(cfg.UnconfirmedCancelSweep)
		defer cancelTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Auto-cancel sweep stopped")
				return
			case <-cancelTicker.C:
				if _, err := bookingService.CancelUnconfirmed(ctx, cfg.UnconfirmedCancelLead); err != nil {
					log.Error("Error cancelling unconfirmed bookings", "error", err)
				}
			}
		}
	}()

	// Start the stock monitor in a goroutine
	go func() {
		stockTicker := time.NewTicker(cfg.StockMonitorInterval)
		defer stockTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Stock monitor stopped")
				return
			case <-stockTicker.C:
				if err := inventoryMonitor.MonitorStock(ctx); err != nil {
					log.Error("Error monitoring stock", "error", err)
				}
			}
		}
	}()

	// Sweep expired cache entries so the dashboard cache does not accumulate
	go func() {
		cacheTicker := time.NewTicker(cfg.CacheDefaultTTL)
		defer cacheTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-cacheTicker.C:
				if removed := aggregateCache.SweepExpired(); removed > 0 {
					log.Debug("Swept expired cache entries", "removed", removed)
				}
			}
		}
	}()

	// Set up HTTP server for metrics and health
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"version": cfg.AppVersion,
			"cache":   dashboardService.CacheStats(),
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Clinic Booking Service stopped")
}
