package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	nats "github.com/nats-io/nats.go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/ABDUL-REHMAN392/moviebackend/config"
	httpadapter "github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/http"
	apiv1 "github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/http/api/v1"
	handlers "github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/http/api/v1/handlers"
	authmw "github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/http/middleware"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/media"
	natsadapter "github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/nats"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/oauth"
	repo "github.com/ABDUL-REHMAN392/moviebackend/internal/adapters/postgres"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/domain"
	"github.com/ABDUL-REHMAN392/moviebackend/internal/usecase"
	pkglog "github.com/ABDUL-REHMAN392/moviebackend/pkg/log"
)

type App struct {
	cfg      *config.Config
	logger   pkglog.Logger
	db       *gorm.DB
	natsConn *nats.Conn
	echo     *echo.Echo
}

func New(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	logger := pkglog.New(cfg.AppName, cfg.AppEnv)

	db, err := gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{
		Logger:         loggerForGorm(cfg),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	if err != nil {
		return nil, err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&domain.Account{}); err != nil {
		return nil, err
	}

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Printf("nats connect failed: %v", err)
	}

	accounts := repo.NewAccountRepository(db)
	codec, err := usecase.NewTokenCodec(usecase.TokenConfig{
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	if err != nil {
		return nil, err
	}
	hasher := usecase.NewBcryptHasher()
	reconciler := usecase.NewReconciler(accounts)

	var mediaStore media.Store
	if cfg.MediaStoreURL != "" {
		mediaStore = media.NewHTTPStore(cfg.MediaStoreURL, 5*time.Second)
	}
	var events natsadapter.EventPublisher
	if nc != nil {
		events = natsadapter.NewEventPublisher(nc, cfg.NATSEventPrefix)
	}

	service := usecase.NewSessionService(cfg, logger, accounts, hasher, codec, reconciler, mediaStore, events)
	google := oauth.NewGoogleExchanger(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL)
	handler := handlers.NewAuthHandler(cfg, service, google)
	authMW := authmw.NewAuthMiddleware(service)
	router := httpadapter.NewRouter(cfg, apiv1.NewRouter(handler, authMW.Handler))

	if nc != nil {
		verifyHandler := natsadapter.NewVerifyHandler(service)
		_ = verifyHandler.Subscribe(nc, cfg.NATSVerifySubject, cfg.AppName)
	}

	e := echo.New()
	router.Setup(e)

	return &App{cfg: cfg, logger: logger, db: db, natsConn: nc, echo: e}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		errCh <- a.echo.Start(fmt.Sprintf("%s:%s", a.cfg.HTTPHost, a.cfg.HTTPPort))
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

func loggerForGorm(cfg *config.Config) logger.Interface {
	level := logger.Silent
	switch cfg.AppEnv {
	case "local":
		level = logger.Info
	default:
		level = logger.Warn
	}
	return logger.Default.LogMode(level)
}
