package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amoylab/lokal/internal/ai"
	"github.com/amoylab/lokal/internal/apiserver/handler"
	"github.com/amoylab/lokal/internal/auth"
	"github.com/amoylab/lokal/internal/auth/jwt"
	"github.com/amoylab/lokal/internal/catalog"
	"github.com/amoylab/lokal/internal/common/config"
	"github.com/amoylab/lokal/internal/contract"
	"github.com/amoylab/lokal/internal/database"
	"github.com/amoylab/lokal/internal/history"
	"github.com/amoylab/lokal/internal/i18n"
	"github.com/amoylab/lokal/internal/ledger"
	"github.com/amoylab/lokal/internal/prefs"
	"github.com/amoylab/lokal/internal/profile"
	"github.com/amoylab/lokal/pkg/logger"
	"github.com/amoylab/lokal/pkg/metrics"
)

// app holds what the server needs to release on shutdown
type app struct {
	router  *gin.Engine
	db      database.Database
	history history.Store
	prefs   prefs.Store
	logger  *zap.Logger
}

func (a *app) Close() {
	if a.prefs != nil {
		if err := a.prefs.Close(); err != nil {
			a.logger.Warn("failed to close prefs store", zap.Error(err))
		}
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("failed to close history store", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
}

func initLogger(cfg *config.LokalConfig) *zap.Logger {
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return lg
}

func initI18n(lg *zap.Logger, cfg *config.I18nConfig) {
	if err := i18n.InitTranslator(cfg.Path); err != nil {
		lg.Warn("failed to load translations, using embedded defaults",
			zap.String("path", cfg.Path),
			zap.Error(err))
		_ = i18n.InitTranslator("")
	}
}

func initDatabase(lg *zap.Logger, cfg *config.DatabaseConfig) (database.Database, error) {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	lg.Info("Database initialized", zap.String("type", cfg.Type))
	return db, nil
}

// initApp builds every service and the router on top of them
func initApp(ctx context.Context, cfg *config.LokalConfig, lg *zap.Logger) (*app, error) {
	a := &app{logger: lg}

	db, err := initDatabase(lg, &cfg.Database)
	if err != nil {
		return nil, err
	}
	a.db = db

	if cfg.Catalog.MockData {
		n, err := database.SeedTestBusinesses(ctx, db, cfg.Catalog.TestBusinessIDs)
		if err != nil {
			lg.Warn("failed to seed demo businesses", zap.Error(err))
		} else if n > 0 {
			lg.Info("Seeded demo businesses", zap.Int("count", n))
		}
	}

	a.history, err = history.NewStore(ctx, lg, cfg.Redis, cfg.History)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.prefs, err = prefs.NewStore(ctx, lg, cfg.Redis, cfg.Prefs)
	if err != nil {
		a.Close()
		return nil, err
	}

	js, err := jwt.NewService(cfg.Auth.JWT)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize JWT: %w", err)
	}
	catalogSvc, err := catalog.NewService(db, &cfg.Catalog, lg)
	if err != nil {
		a.Close()
		return nil, err
	}

	m := metrics.New(cfg.Metrics)
	providers := auth.NewProviders(cfg.Auth.OAuth)
	for _, p := range providers {
		lg.Info("OAuth provider enabled", zap.String("provider", p.Name()))
	}

	svc := &handler.Services{
		Auth:      auth.NewService(db, js, providers, lg),
		Profiles:  profile.NewResolver(db, &cfg.Auth, lg, m),
		Catalog:   catalogSvc,
		Ledger:    ledger.New(db, lg, m),
		Contracts: contract.NewService(db, lg),
		Gateway:   ai.NewGateway(&cfg.AI, cfg.Catalog.MockData, lg, m),
		History:   history.NewRecorder(a.history, lg, m),
		Prefs:     a.prefs,
		Metrics:   m,
	}
	a.router = handler.NewRouter(cfg, svc, lg)
	return a, nil
}
