// Package server implements the HTTP server subcommand.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	cardsApp "cardwallet/internal/application/cards"
	certApp "cardwallet/internal/application/certificates"
	"cardwallet/internal/application/identity"
	registryApp "cardwallet/internal/application/registry"
	tenantsApp "cardwallet/internal/application/tenants"
	walletApp "cardwallet/internal/application/wallet"
	"cardwallet/internal/infrastructure/blob"
	"cardwallet/internal/infrastructure/cache"
	"cardwallet/internal/infrastructure/config"
	"cardwallet/internal/infrastructure/database"
	"cardwallet/internal/infrastructure/migration"
	"cardwallet/internal/infrastructure/passkit"
	"cardwallet/internal/infrastructure/pubsub"
	"cardwallet/internal/infrastructure/repository"
	httpRouter "cardwallet/internal/interfaces/http"
	"cardwallet/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the pass web service and admin API.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting server",
		"environment", env,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			logger.Warn("auto-migration is enabled in production environment - this is not recommended!")
		}
		manager := migration.NewManager(env)
		if err := manager.Migrate(database.Get()); err != nil {
			logger.Fatal("auto-migration failed", "error", err)
		}
		logger.Info("auto-migration completed")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	blobStore, err := blob.NewMinioStore(&cfg.Blob)
	if err != nil {
		logger.Fatal("failed to initialize blob store", "error", err)
	}

	log := logger.NewLogger()

	cardRepo := repository.NewCardRepository(database.Get())
	tenantRepo := repository.NewTenantRepository(database.Get())
	deviceRepo := repository.NewDeviceRegistrationRepository(database.Get())
	certRepo := repository.NewTenantCertificateRepository(database.Get())

	tokenStore := cache.NewPushTokenStore(redisClient)
	eventBus := pubsub.NewRedisCardEventBus(redisClient, log)

	certService := certApp.NewService(certRepo, blobStore, cfg.Wallet.DefaultTenantKey, log)
	walletService := walletApp.NewService(
		identity.NewResolver(cardRepo, log),
		registryApp.NewService(deviceRepo, tokenStore, log),
		certService,
		passkit.NewPkpassBuilder(),
		&cfg.Wallet,
		log,
	)

	router := httpRouter.NewRouter(httpRouter.Dependencies{
		Wallet:       walletService,
		Cards:        cardsApp.NewService(cardRepo, tenantRepo, eventBus, log),
		Tenants:      tenantsApp.NewService(tenantRepo, log),
		Certificates: certService,
	}, cfg, log)
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
