package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartcache "github.com/petpoint/pet_point/internal/cart/cache"
	cartrepo "github.com/petpoint/pet_point/internal/cart/repository"
	cartservice "github.com/petpoint/pet_point/internal/cart/service"
	catalogstore "github.com/petpoint/pet_point/internal/catalog/store"
	checkoutpub "github.com/petpoint/pet_point/internal/checkout/publisher"
	checkoutrepo "github.com/petpoint/pet_point/internal/checkout/repository"
	checkoutservice "github.com/petpoint/pet_point/internal/checkout/service"
	"github.com/petpoint/pet_point/internal/config"
	h "github.com/petpoint/pet_point/internal/gateway/http"
	reportsrepo "github.com/petpoint/pet_point/internal/reports/repository"
	reportsservice "github.com/petpoint/pet_point/internal/reports/service"
	"github.com/petpoint/pet_point/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	logger.Setup(cfg.LogLevel)

	ctx := context.Background()

	// MongoDB holds carts and lost-and-found reports
	mongoDB, err := cartrepo.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	cartRepository := cartrepo.NewMongoRepository(mongoDB)
	reportRepository := reportsrepo.NewMongoRepository(mongoDB)
	if err := cartrepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.WithError(err).Fatal("failed to create cart indexes")
	}
	if err := reportsrepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.WithError(err).Fatal("failed to create report indexes")
	}
	log.WithField("uri", cfg.MongoURI).Info("connected to MongoDB")

	// Redis caches cart reads
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.WithError(err).Fatal("redis connection failed")
	}
	cache := cartcache.NewRedisCache(redisClient)

	// SQLite holds the product catalog and stock
	catalog, err := catalogstore.NewSQLiteStore(cfg.CatalogDBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open catalog store")
	}
	defer catalog.Close()
	if err := catalog.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		log.WithError(err).Fatal("failed to run catalog migrations")
	}

	// Postgres holds order records and the outbox
	ordersCred := &checkoutrepo.Credentials{
		Host:              cfg.OrdersDBHost,
		Port:              cfg.OrdersDBPort,
		User:              cfg.OrdersDBUser,
		Password:          cfg.OrdersDBPassword,
		DBName:            cfg.OrdersDBName,
		MigrationsDirPath: cfg.OrdersMigrationsPath,
	}
	ordersRepo, err := checkoutrepo.NewRepository(ordersCred)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to orders database")
	}
	defer ordersRepo.Close()
	if err := ordersRepo.RunMigrations(ordersCred); err != nil {
		log.WithError(err).Fatal("failed to run orders migrations")
	}

	// Services
	cartSvc := cartservice.NewCartService(cartRepository, cache, catalog)
	stock := checkoutservice.NewBreakerStockStore(catalog)
	checkoutSvc := checkoutservice.NewCheckoutService(cartSvc, stock, ordersRepo, cfg.RemoteCallTimeout, cfg.ClearCartOnFailure)
	reportSvc := reportsservice.NewReportService(reportRepository)

	// Outbox poller publishes order events to Kafka
	pollerCtx, stopPoller := context.WithCancel(ctx)
	poller := checkoutpub.NewOutboxPoller(ordersRepo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	// Handlers
	cartHandler := h.NewCartHandler(cartSvc, cfg.RequestTimeout)
	catalogHandler := h.NewCatalogHandler(catalog, cfg.RequestTimeout)
	checkoutHandler := h.NewCheckoutHandler(checkoutSvc, cfg.RequestTimeout)
	reportsHandler := h.NewReportsHandler(reportSvc, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.MockAuthMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.ListProducts)
			r.Get("/{id}", catalogHandler.GetProduct)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{line_id}", cartHandler.UpdateQuantity)
			r.Post("/items/{line_id}/increase", cartHandler.Increase)
			r.Post("/items/{line_id}/decrease", cartHandler.Decrease)
			r.Delete("/items/{line_id}", cartHandler.RemoveLine)
		})
		r.Post("/checkout", checkoutHandler.Checkout)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/", reportsHandler.List)
			r.Post("/", reportsHandler.Create)
			r.Get("/mine", reportsHandler.Mine)
			r.Put("/{id}", reportsHandler.Update)
			r.Delete("/{id}", reportsHandler.Hide)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "petpoint-gateway"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("Pet Point backend starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		log.WithError(err).Warn("failed to disconnect MongoDB")
	}
	log.Info("Pet Point backend stopped")
}
