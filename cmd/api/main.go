package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"catalog/internal/config"
	"catalog/internal/handler"
	"catalog/internal/infra/db"
	infraRepo "catalog/internal/infra/repository"
	"catalog/internal/logger"
	"catalog/internal/server"
	"catalog/internal/usecase"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	//価格はJSONで数値として出す
	decimal.MarshalJSONWithoutQuotes = true

	//DB接続
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		log.WithError(err).Fatal("failed to get sql.DB")
	}
	defer sqlDB.Close()

	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("failed to migrate")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Seed {
		if err := db.Seed(ctx, gormDB); err != nil {
			log.WithError(err).Fatal("failed to seed")
		}
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	productUC := usecase.NewProductUsecase(productRepo, txm, log)
	categoryUC := usecase.NewCategoryUsecase(txm, log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, cfg.DBDriver),
	)

	//Handler生成
	e, err := server.New(log, server.Handlers{
		Products:   handler.NewProductHandler(productUC),
		Categories: handler.NewCategoryHandler(categoryUC),
		Health:     handler.NewHealthHandler(sqlDB),
	}, server.Options{JWTSecret: cfg.JWTSecret, Registry: reg})
	if err != nil {
		log.WithError(err).Fatal("failed to build server")
	}

	//Server起動
	log.WithField("addr", cfg.Addr()).Info("starting server")
	if err := server.Start(ctx, e, cfg.Addr(), cfg.ShutdownTimeout); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}
