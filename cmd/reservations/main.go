package main

import (
	"github.com/julienschmidt/httprouter"

	assethandler "scootal/internal/assets/handler"
	assetrepository "scootal/internal/assets/repository"
	assetservice "scootal/internal/assets/service"
	assetvalidator "scootal/internal/assets/validator"
	bookinghandler "scootal/internal/bookings/handler"
	bookingrepository "scootal/internal/bookings/repository"
	bookingservice "scootal/internal/bookings/service"
	bookingvalidator "scootal/internal/bookings/validator"
	"scootal/internal/events"
	"scootal/internal/ledger"
	paymenthandler "scootal/internal/payments/handler"
	"scootal/internal/payments/processor"
	paymentrepository "scootal/internal/payments/repository"
	paymentservice "scootal/internal/payments/service"
	providerhandler "scootal/internal/providers/handler"
	providerrepository "scootal/internal/providers/repository"
	providerservice "scootal/internal/providers/service"
	"scootal/pkg/app"
	"scootal/pkg/config"
	"scootal/pkg/contracts"
)

const ServiceName = "reservations"

// compositeHandler registers every domain's routes on the shared router.
type compositeHandler struct {
	handlers []contracts.Handler
}

func (c *compositeHandler) RegisterRoutes(router *httprouter.Router) {
	for _, h := range c.handlers {
		h.RegisterRoutes(router)
	}
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	// Payments stack.
	stripeProcessor := processor.NewStripeProcessor(cfg)
	paymentRepo := paymentrepository.NewMongoPaymentRepository(cfg)
	providerRepo := providerrepository.NewMongoProviderRepository(cfg)
	providerService := providerservice.NewProviderService(providerRepo, stripeProcessor, cfg)
	orchestrator := paymentservice.NewPayoutOrchestrator(paymentRepo, stripeProcessor, providerService, cfg)

	// Assets stack.
	assetValidator := assetvalidator.NewAssetValidator(cfg.Log)
	assetRepo := assetrepository.NewMongoAssetRepository(cfg)
	assetService := assetservice.NewAssetService(assetRepo, assetValidator, cfg)
	escrow := paymentservice.NewFeatureEscrow(stripeProcessor, assetService, cfg)

	// Bookings stack.
	reservationLedger := ledger.NewMongoLedger(cfg)
	bookingValidator := bookingvalidator.NewBookingValidator(cfg.Log)
	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)

	publisher, err := events.NewPublisher(cfg.KafkaBrokers, cfg.BookingEventTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}
	var eventPublisher bookingservice.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		assetRepo,
		reservationLedger,
		orchestrator,
		eventPublisher,
		bookingValidator,
		cfg,
	)

	sweeper := bookingservice.NewExpirySweeper(bookingService, cfg)
	sweeper.Start()

	cfg.Log.Info("Reservations service initialized", "database", cfg.MongoDatabaseName)

	appHandler := &compositeHandler{handlers: []contracts.Handler{
		assethandler.NewAssetHandler(assetService, escrow, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		providerhandler.NewProviderHandler(providerService, cfg.Log),
		paymenthandler.NewWebhookHandler(orchestrator, providerService, cfg.StripeWebhookSecret, cfg.Log),
	}}

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, appHandler)
	serverApp.OnShutdown(sweeper.Stop)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.Run()
}
