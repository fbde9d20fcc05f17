package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tecchohotel/service-booking/internal/application"
	"github.com/tecchohotel/service-booking/internal/config"
	bookingDomain "github.com/tecchohotel/service-booking/internal/domain/booking"
	roomDomain "github.com/tecchohotel/service-booking/internal/domain/room"
	bookingEvents "github.com/tecchohotel/service-booking/internal/events"
	"github.com/tecchohotel/service-booking/internal/handler"
	"github.com/tecchohotel/service-booking/internal/repository"
	"github.com/tecchohotel/service-booking/internal/storage"
	"github.com/tecchohotel/service-booking/pkg/auth"
	"github.com/tecchohotel/service-booking/pkg/database"
	"github.com/tecchohotel/service-booking/pkg/health"
	"github.com/tecchohotel/service-booking/pkg/kafka"
	"github.com/tecchohotel/service-booking/pkg/logger"
	"github.com/tecchohotel/service-booking/pkg/middleware"
)

const serviceName = "service-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("ledger_backend", cfg.LedgerBackend),
	)

	// Connect to database
	dbConfig := database.Config{
		Driver:   cfg.DBConfig.Driver,
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
		Path:     cfg.DBConfig.Path,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := migrate(db, dbConfig, cfg, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, cfg.JWTConfig.AccessTTL)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	store := storage.NewGormStore(db)
	sessionRepo := repository.NewKVSessionRepository(store)
	draftRepo := repository.NewKVDraftRepository(store)

	var bookingRepo bookingDomain.BookingRepository
	switch cfg.LedgerBackend {
	case config.LedgerBackendKV:
		bookingRepo = repository.NewKVBookingRepository(store)
	default:
		bookingRepo = repository.NewGormBookingRepository(db)
	}

	// Initialize application services
	pricingStrategy := bookingDomain.NewStandardPricingStrategy()
	catalog := roomDomain.DefaultCatalog()

	identityService := application.NewIdentityService(sessionRepo, jwtManager, cfg.AdminEmails, log)
	roomService := application.NewRoomService(catalog)
	draftService := application.NewDraftService(draftRepo, catalog, pricingStrategy, log)
	ledgerService := application.NewLedgerService(
		bookingRepo,
		pricingStrategy,
		bookingDomain.UUIDGenerator{},
		bookingDomain.NewTimestampNumberGenerator(time.Now),
		kafkaProducer,
		log,
	)
	checkoutService := application.NewCheckoutService(draftRepo, ledgerService, cfg.PaymentDelay, log)

	// Initialize and start front-desk event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	frontDeskConsumer := bookingEvents.NewFrontDeskEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		ledgerService,
		log,
	)
	defer func() { _ = frontDeskConsumer.Close() }()

	go func() {
		log.Info("starting front-desk event consumer")
		if err := frontDeskConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("front-desk event consumer error", zap.Error(err))
		}
	}()

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins...))
	router.Use(middleware.SecurityHeadersMiddleware())

	health.NewHandler(db, serviceName).RegisterRoutes(router)

	api := &router.RouterGroup
	handler.NewAuthHandler(identityService).RegisterRoutes(api, jwtManager)
	handler.NewRoomHandler(roomService).RegisterRoutes(api)
	handler.NewDraftHandler(draftService).RegisterRoutes(api)
	handler.NewCheckoutHandler(checkoutService).RegisterRoutes(api, jwtManager, identityService)
	handler.NewBookingHandler(ledgerService).RegisterRoutes(api, jwtManager, identityService)
	handler.NewAdminBookingHandler(ledgerService).RegisterRoutes(api, jwtManager, identityService)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}

// migrate applies the SQL migrations for postgres outside development and
// falls back to AutoMigrate otherwise.
func migrate(db *gorm.DB, dbConfig database.Config, cfg *config.ServiceConfig, log *zap.Logger) error {
	usesSQLMigrations := cfg.AppEnv != "development" &&
		(dbConfig.Driver == database.DriverPostgres || dbConfig.Driver == "")
	if usesSQLMigrations {
		return database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, log)
	}

	if err := db.AutoMigrate(&repository.BookingModel{}, &storage.KVEntryModel{}); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	log.Info("database migration completed (auto-migrate)", zap.String("driver", dbConfig.Driver))
	return nil
}
