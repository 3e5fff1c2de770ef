// The worker consumes card-change events and sends silent push
// notifications to registered devices.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"cardwallet/internal/application/certificates"
	"cardwallet/internal/application/notifier"
	"cardwallet/internal/infrastructure/blob"
	"cardwallet/internal/infrastructure/cache"
	"cardwallet/internal/infrastructure/config"
	"cardwallet/internal/infrastructure/database"
	"cardwallet/internal/infrastructure/pubsub"
	"cardwallet/internal/infrastructure/push"
	"cardwallet/internal/infrastructure/repository"
	"cardwallet/internal/shared/logger"
)

func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.NewLogger()
	log.Infow("starting notification worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to connect to redis", "error", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	blobStore, err := blob.NewMinioStore(&cfg.Blob)
	if err != nil {
		logger.Fatal("failed to initialize blob store", "error", err)
	}

	tenantRepo := repository.NewTenantRepository(database.Get())
	deviceRepo := repository.NewDeviceRegistrationRepository(database.Get())
	certRepo := repository.NewTenantCertificateRepository(database.Get())

	service := notifier.NewService(
		tenantRepo,
		deviceRepo,
		cache.NewPushTokenStore(redisClient),
		certificates.NewService(certRepo, blobStore, cfg.Wallet.DefaultTenantKey, log),
		push.NewAPNSGateway(&cfg.Push, log),
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Infow("received signal, shutting down", "signal", sig)
		cancel()
	}()

	bus := pubsub.NewRedisCardEventBus(redisClient, log)
	if err := bus.Subscribe(ctx, service.HandleChange); err != nil && ctx.Err() == nil {
		logger.Fatal("event subscription failed", "error", err)
	}

	log.Infow("notification worker stopped")
}
