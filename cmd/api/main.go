package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dealerhub/dealerhub-backend/api/routes"
	"github.com/dealerhub/dealerhub-backend/internal/auth"
	car "github.com/dealerhub/dealerhub-backend/internal/cars"
	category "github.com/dealerhub/dealerhub-backend/internal/categories"
	client "github.com/dealerhub/dealerhub-backend/internal/clients"
	"github.com/dealerhub/dealerhub-backend/internal/export"
	"github.com/dealerhub/dealerhub-backend/internal/media"
	order "github.com/dealerhub/dealerhub-backend/internal/orders"
	stock "github.com/dealerhub/dealerhub-backend/internal/stock"
	user "github.com/dealerhub/dealerhub-backend/internal/users"
	"github.com/dealerhub/dealerhub-backend/pkg/auth/session"
	"github.com/dealerhub/dealerhub-backend/pkg/config"
	"github.com/dealerhub/dealerhub-backend/pkg/db"
	"github.com/dealerhub/dealerhub-backend/pkg/imagehost"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
	"github.com/dealerhub/dealerhub-backend/pkg/metrics"
	"github.com/dealerhub/dealerhub-backend/pkg/migrate"
	"github.com/dealerhub/dealerhub-backend/pkg/redis"
	"github.com/dealerhub/dealerhub-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT.RefreshTokenTTL(), logg)
	requireResource(logg, "session manager", err)

	hasher, err := security.NewHasher(cfg.Password)
	requireResource(logg, "password hasher", err)

	imageHost, err := imagehost.NewClient(context.Background(), cfg.ImageHost, logg)
	requireResource(logg, "image host client", err)

	gormDB := dbClient.DB()
	userRepo := user.NewRepository(gormDB)
	carRepo := car.NewRepository(gormDB)
	categoryRepo := category.NewRepository(gormDB)
	clientRepo := client.NewRepository(gormDB)
	orderRepo := order.NewRepository(gormDB)
	stockRepo := stock.NewRepository(gormDB)

	catalog, err := car.NewCatalog(carRepo)
	requireResource(logg, "car catalog", err)

	authService, err := auth.NewService(userRepo, hasher, sessionManager, redisClient, cfg.JWT, cfg.AuthRateLimit, logg)
	requireResource(logg, "auth service", err)

	categoryService, err := category.NewService(categoryRepo, logg)
	requireResource(logg, "category service", err)

	carService, err := car.NewService(carRepo, dbClient, categoryRepo, logg)
	requireResource(logg, "car service", err)

	clientService, err := client.NewService(clientRepo, dbClient, catalog, logg)
	requireResource(logg, "client service", err)

	orderService, err := order.NewService(orderRepo, dbClient, clientRepo, catalog, logg)
	requireResource(logg, "order service", err)

	stockService, err := stock.NewService(stockRepo, catalog, logg)
	requireResource(logg, "stock service", err)

	mediaService, err := media.NewService(imageHost, cfg.Upload, logg)
	requireResource(logg, "media service", err)

	exportService, err := export.NewService(carService, carService, cfg.Export, logg)
	requireResource(logg, "export service", err)

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Redis:       redisClient,
		DBPinger:    dbClient,
		Sessions:    sessionManager,
		HTTPMetrics: httpMetrics,
		Registry:    registry,

		Auth:       authService,
		Cars:       carService,
		Categories: categoryService,
		Clients:    clientService,
		Orders:     orderService,
		Stock:      stockService,
		Media:      mediaService,
		Export:     exportService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(stopCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}
