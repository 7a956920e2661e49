package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/farmerp/stockledger-api/internal/application/alerts"
	"github.com/farmerp/stockledger-api/internal/application/ledger"
	"github.com/farmerp/stockledger-api/internal/application/reports"
	"github.com/farmerp/stockledger-api/internal/application/usecase"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
	"github.com/farmerp/stockledger-api/internal/infrastructure/memory"
	infrapdf "github.com/farmerp/stockledger-api/internal/infrastructure/pdf"
	"github.com/farmerp/stockledger-api/internal/infrastructure/postgres"
	httpRouter "github.com/farmerp/stockledger-api/internal/interfaces/http"
	"github.com/farmerp/stockledger-api/pkg/config"
	"github.com/farmerp/stockledger-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("starting application")

	ctx := context.Background()

	var (
		itemRepo   repository.ItemRepository
		lotRepo    repository.LotRepository
		txRepo     repository.TransactionRepository
		poRepo     repository.PurchaseOrderRepository
		reportRepo repository.ReportRepository
		txRunner   ledger.TxRunner
	)
	if cfg.DB.Driver == "memory" {
		// In-process store for demos and local development.
		store := memory.NewStore()
		itemRepo = store.Items()
		lotRepo = store.Lots()
		txRepo = store.Transactions()
		poRepo = store.PurchaseOrders()
		reportRepo = store.Reports()
		txRunner = memory.NewRunner(store)
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("PostgreSQL connection")
		}
		defer pool.Close()

		itemRepo = postgres.NewItemRepository(pool)
		lotRepo = postgres.NewLotRepository(pool)
		txRepo = postgres.NewTransactionRepository(pool)
		poRepo = postgres.NewPurchaseOrderRepository(pool)
		reportRepo = postgres.NewReportRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	ledgerUC := ledger.NewUseCase(txRunner, txRepo)
	itemUC := usecase.NewItemUseCase(itemRepo, lotRepo)
	poUC := usecase.NewPurchaseOrderUseCase(poRepo, itemRepo)
	alertsUC := alerts.NewUseCase(itemRepo, lotRepo, cfg.Alerts.ExpiryWindowDays)
	reportUC := reports.NewUseCase(reportRepo, infrapdf.NewMarotoPDFGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:   itemUC,
		POUC:     poUC,
		LedgerUC: ledgerUC,
		AlertsUC: alertsUC,
		ReportUC: reportUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
