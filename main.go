package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"weddingpro-backend/config"
	"weddingpro-backend/controllers"
	"weddingpro-backend/repository"
	"weddingpro-backend/routes"
	"weddingpro-backend/services"
)

func main() {
	cfg := config.LoadConfig()
	logger := config.NewLogger(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := config.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if err := controllers.SeedDefaults(); err != nil {
		log.Warn().Err(err).Msg("failed to seed default reminder templates")
	}

	catalog := repository.NewCatalogRepository(db)
	venues := repository.NewVenueRepository(db)
	customers := repository.NewCustomerRepository(db)
	weddings := repository.NewWeddingRepository(db)
	bills := repository.NewBillRepository(db)

	booking := services.NewBookingService(services.Dependencies{
		Tx:        repository.NewTransactor(db),
		Weddings:  weddings,
		Orders:    repository.NewOrderRepository(db),
		Bills:     bills,
		Catalog:   catalog,
		Venues:    venues,
		Customers: customers,
		Clock:     services.SystemClock{},
		Location:  cfg.VenueLocation,
		Logger:    logger,
	})
	revenue := services.NewRevenueService(weddings, bills, services.SystemClock{}, cfg.VenueLocation)

	var reminders *services.ReminderService
	if cfg.RemindersEnabled() {
		sender := services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.TwilioWhatsAppNumber)
		reminders = services.NewReminderService(db, booking, sender, services.SystemClock{}, cfg.VenueLocation, cfg.ReminderDaysAhead, logger)
		scheduler, err := reminders.StartScheduler(cfg.ReminderCron)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start reminder scheduler")
		}
		defer scheduler.Stop()
	} else {
		log.Info().Msg("Twilio not configured, payment reminders disabled")
	}

	r := routes.SetupRouter(cfg, logger, routes.Handlers{
		Weddings:  &controllers.WeddingController{Booking: booking},
		Catalog:   &controllers.CatalogController{Repo: catalog},
		Venues:    &controllers.VenueController{Repo: venues},
		Customers: &controllers.CustomerController{Repo: customers},
		Reports:   &controllers.ReportController{Revenue: revenue},
		Reminders: reminders,
	})
	if logger.GetLevel() <= zerolog.DebugLevel {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
