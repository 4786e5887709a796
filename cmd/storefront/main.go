package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_storefront/internal/cache"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/config"
	h "github.com/fjod/go_storefront/internal/http"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/notify"
	"github.com/fjod/go_storefront/internal/poller"
	"github.com/fjod/go_storefront/internal/repository"
	"github.com/fjod/go_storefront/internal/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	repo, err := repository.NewRepository(cfg.DBPath)
	if err != nil {
		zlog.Fatal("Failed to open catalog database", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}
	zlog.Info("Migrations completed successfully", zap.String("db_path", cfg.DBPath))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var productCache cache.ProductCache = cache.NoopCache{}
	if cfg.RedisEnabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zlog.Fatal("Redis connection failed", zap.Error(err))
		}
		zlog.Info("Redis ping succeeded", zap.String("addr", cfg.RedisAddr))
		productCache = cache.NewRedisCache(redisClient, cfg.CacheTTL)
	}

	catalogService := catalog.NewService(repo, productCache, zlog, cfg.ProductsPerPage)
	if err := catalogService.Refresh(ctx); err != nil {
		zlog.Fatal("Failed to load catalog", zap.Error(err))
	}

	var notifier notify.Notifier = notify.NewLogNotifier(zlog)
	if cfg.KafkaEnabled() {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.KafkaTopic, cfg.KafkaBrokers...)
		defer kafkaNotifier.Close()
		notifier = notify.NewBreakerNotifier(kafkaNotifier, notifier, notify.BreakerSettings{}, zlog)
		zlog.Info("Publishing checkouts to Kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic),
		)

		catalogPoller := poller.NewPoller(catalogService, zlog, cfg.CatalogTopic, cfg.KafkaGroupID, cfg.KafkaBrokers...)
		defer catalogPoller.Close()
		go catalogPoller.Run(ctx)
	}

	checkoutService := checkout.NewService(notifier, zlog, checkout.Options{
		Currency:      cfg.Currency,
		Locale:        cfg.LanguageTag(),
		RedirectDelay: cfg.RedirectDelay,
	})

	sessions := session.NewRegistry(cfg.SessionTTL)
	defer sessions.Close()

	router := h.NewRouter(h.RouterDeps{
		Catalog:   catalogService,
		Purchaser: checkoutService,
		Sessions:  sessions,
		Log:       zlog,
		Options: h.Options{
			Timeout:  cfg.RequestTimeout,
			Locale:   cfg.LanguageTag(),
			Currency: cfg.Currency,
		},
		MaxBodySize: cfg.MaxRequestBodySize,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// gRPC health for orchestration probes
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		zlog.Fatal("Failed to listen", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("storefront", healthpb.HealthCheckResponse_SERVING)

	// Enable reflection for grpcurl/grpcui
	reflection.Register(grpcServer)

	go func() {
		zlog.Info("Health service listening", zap.String("port", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			zlog.Error("gRPC server error", zap.Error(err))
		}
	}()

	go func() {
		zlog.Info("Storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server...")
	stop()
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	zlog.Info("server exited")
}
