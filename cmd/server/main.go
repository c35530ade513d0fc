package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/framepix/frame_shop/internal/cache"
	"github.com/framepix/frame_shop/internal/config"
	"github.com/framepix/frame_shop/internal/es"
	"github.com/framepix/frame_shop/internal/httpserver"
	"github.com/framepix/frame_shop/internal/logging"
	"github.com/framepix/frame_shop/internal/media"
	"github.com/framepix/frame_shop/internal/models"
	"github.com/framepix/frame_shop/internal/mykafka"
	"github.com/framepix/frame_shop/internal/payment"
	"github.com/framepix/frame_shop/internal/repo"
	"github.com/framepix/frame_shop/internal/search"
	"github.com/framepix/frame_shop/internal/service"
	"github.com/framepix/frame_shop/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	config.MustNonEmpty(cfg.DATABASE_URL, "DATABASE_URL")
	config.MustNonEmpty(cfg.JWT_SECRET, "JWT_SECRET")
	config.MustNonEmpty(cfg.REFRESH_SECRET, "REFRESH_SECRET")
	config.MustNonEmpty(cfg.GATEWAY_KEY_SECRET, "GATEWAY_KEY_SECRET")

	logger := logging.New(cfg.LOG_LEVEL)

	ctx := context.Background()
	gdb, err := db.Open(ctx, cfg.DATABASE_URL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Product{},
		&models.ProductSize{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderLineItem{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	prod := mykafka.NewProducer([]string{cfg.KAFKA_ADDRESS})

	esClient, err := es.NewClient(cfg)
	if err != nil {
		log.Fatalf("es init: %v", err)
	}
	index := &search.Index{ES: esClient, Name: "products"}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.REDIS_ADDR})
	productCache := cache.NewRedisCache(rdb)

	gateway := payment.NewGateway(cfg.GATEWAY_URL, cfg.GATEWAY_KEY_ID, cfg.GATEWAY_KEY_SECRET)
	mediaClient := media.NewClient(cfg.MEDIA_URL, cfg.MEDIA_API_KEY, cfg.MEDIA_UPLOAD_PRESET)

	store := &repo.GormRepo{DB: gdb}

	jwtSecret := []byte(cfg.JWT_SECRET)
	refreshSecret := []byte(cfg.REFRESH_SECRET)

	deps := httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo: store, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod,
		}},
		CartHandler: &httpserver.CartHTTP{Svc: &service.CartService{
			Repo: store, Producer: prod,
		}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Repo: store, Cache: productCache, Index: index, Producer: prod,
		}},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo: store, Media: mediaClient, Gateway: gateway, Producer: prod,
		}},
		SearchHandler: &httpserver.SearchHTTP{Index: index},
		JWTSecret:     jwtSecret,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), httpserver.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
	if err := rdb.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}

	log.Println("shutdown complete")
}
