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

	"github.com/openmart/shop_backend/internal/config"
	"github.com/openmart/shop_backend/internal/es"
	"github.com/openmart/shop_backend/internal/hash"
	"github.com/openmart/shop_backend/internal/httpserver"
	"github.com/openmart/shop_backend/internal/imagehost"
	"github.com/openmart/shop_backend/internal/logging"
	mwauth "github.com/openmart/shop_backend/internal/middleware/auth"
	loggingmw "github.com/openmart/shop_backend/internal/middleware/logging"
	"github.com/openmart/shop_backend/internal/mykafka"
	"github.com/openmart/shop_backend/internal/repo"
	"github.com/openmart/shop_backend/internal/service/auth"
	"github.com/openmart/shop_backend/internal/service/catalog"
	"github.com/openmart/shop_backend/internal/service/token"
)

const productIndex = "product"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	host, err := imagehost.NewMinioHost(imagehost.MinioOptions{
		Endpoint:  cfg.MINIO_ENDPOINT,
		AccessKey: cfg.MINIO_ACCESS_KEY,
		SecretKey: cfg.MINIO_SECRET_KEY,
		Bucket:    cfg.MINIO_BUCKET,
		UseSSL:    cfg.MINIO_USE_SSL,
		PublicURL: cfg.MINIO_PUBLIC_URL,
	})
	if err != nil {
		log.Fatalf("minio init: %v", err)
	}
	if err := host.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("minio bucket: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KAFKA_BROKERS) > 0 {
		producer, err = mykafka.NewProducer(cfg.KAFKA_BROKERS)
		if err != nil {
			log.Fatalf("kafka init: %v", err)
		}
	} else {
		logger.Warn("kafka disabled, no brokers configured")
	}

	searchHandler := &httpserver.SearchHTTP{Index: productIndex}
	if cfg.ES_URL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("es init: %v", err)
		}
		searchHandler.ES = client
	} else {
		logger.Warn("elasticsearch disabled, ES_URL not set")
	}

	jwtSecret := []byte(cfg.JWT_SECRET)
	refreshSecret := []byte(cfg.JWT_REFRESH_SECRET)

	store := &repo.GormRepo{DB: db}
	tokenSvc := &token.Service{Repo: store, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	authSvc := &auth.Service{
		Repo:        store,
		Tokens:      tokenSvc,
		UserScheme:  hash.Bcrypt{},
		AdminScheme: hash.Bcrypt{},
		Producer:    producer,
	}
	catalogSvc := &catalog.Service{
		Repo:     store,
		Host:     host,
		Producer: producer,
		ES:       searchHandler.ES,
		ESIndex:  productIndex,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, httpserver.Deps{
		Auth:    &httpserver.AuthHTTP{Svc: authSvc, Tokens: tokenSvc},
		Product: &httpserver.ProductHTTP{Svc: catalogSvc},
		Search:  searchHandler,
		Gate:    mwauth.NewGate(jwtSecret),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
