// @title        Logistics API
// @version      1.0
// @description  Shipment tracking and delivery management backend.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DevHubFusionX/logi-backend/internal/api"
	"github.com/DevHubFusionX/logi-backend/internal/api/handler"
	"github.com/DevHubFusionX/logi-backend/internal/core/service"
	"github.com/DevHubFusionX/logi-backend/internal/infrastructure/config"
	"github.com/DevHubFusionX/logi-backend/internal/infrastructure/db/postgres"
	"github.com/DevHubFusionX/logi-backend/internal/infrastructure/db/redis"
	"github.com/DevHubFusionX/logi-backend/internal/infrastructure/queue"
	"github.com/DevHubFusionX/logi-backend/internal/payments"
	"github.com/DevHubFusionX/logi-backend/migrations"
	"github.com/DevHubFusionX/logi-backend/pkg/logger"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer db.Close()

	if err := migrations.Up(db.DB); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// Repositories.
	userRepo := postgres.NewUserRepository(db)
	shipmentRepo := postgres.NewShipmentRepository(db)
	driverRepo := postgres.NewDriverRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	pricingRepo := postgres.NewPricingRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	// Services.
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, tokenTTL)
	pricingSvc := service.NewPricingService(pricingRepo, log)
	shipmentSvc := service.NewShipmentService(shipmentRepo, driverRepo, pricingSvc, log)
	driverSvc := service.NewDriverService(driverRepo, log)
	ticketSvc := service.NewTicketService(ticketRepo, log)
	paymentSvc := service.NewPaymentService(paymentRepo, shipmentRepo, redis.NewDedupChecker(rdb), log)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, redis.NewSummaryCache(rdb), log)

	// Webhook pipeline.
	dispatcher := queue.NewDispatcher(cfg.WebhookWorkers, paymentSvc, log)
	dispatcher.Start()

	handlers := api.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Shipments: handler.NewShipmentHandler(shipmentSvc),
		Drivers:   handler.NewDriverHandler(driverSvc),
		Payments:  handler.NewPaymentHandler(paymentSvc),
		Webhooks: handler.NewWebhookHandler(
			payments.NewStripeVerifier(cfg.Stripe.WebhookSecret),
			payments.NewPaystackVerifier(cfg.Paystack.SecretKey),
			dispatcher,
			log,
		),
		Tickets:   handler.NewTicketHandler(ticketSvc),
		Pricing:   handler.NewPricingHandler(pricingSvc),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Health:    handler.NewHealthHandler(db, redis.Pinger{Client: rdb}),
	}

	e := api.NewRouter(handlers, cfg.JWTSecret, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// Webhook events already acknowledged to the providers must still be
	// applied, so the workers drain after the server stops accepting new ones.
	dispatcher.Stop()
}
