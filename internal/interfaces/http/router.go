package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmerp/stockledger-api/internal/application/alerts"
	"github.com/farmerp/stockledger-api/internal/application/ledger"
	"github.com/farmerp/stockledger-api/internal/application/reports"
	"github.com/farmerp/stockledger-api/internal/application/usecase"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	ItemUC   *usecase.ItemUseCase
	POUC     *usecase.PurchaseOrderUseCase
	LedgerUC *ledger.UseCase
	AlertsUC *alerts.UseCase
	ReportUC *reports.UseCase
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Items
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Deactivate)
	items.Get("/:id/balance", itemHandler.Balance)

	// Stock ledger
	stock := api.Group("/stock")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	stock.Post("/add", ledgerHandler.AddStock)
	stock.Post("/use", ledgerHandler.UseStock)
	stock.Post("/adjustment", ledgerHandler.Adjust)
	stock.Get("/transactions", ledgerHandler.ListTransactions)

	// Purchase orders + receipt bridge
	pos := api.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.POUC, deps.LedgerUC)
	pos.Post("/", poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.GetByID)
	pos.Post("/:id/receive", poHandler.Receive)

	// Alerts (derived views)
	alertsGroup := api.Group("/alerts")
	alertsHandler := NewAlertsHandler(deps.AlertsUC)
	alertsGroup.Get("/low-stock", alertsHandler.LowStock)
	alertsGroup.Get("/expiring", alertsHandler.ExpiringLots)

	// Reports
	reportsGroup := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup.Get("/stock-valuation", reportHandler.StockValuation)
	reportsGroup.Get("/stock-valuation.pdf", reportHandler.StockValuationPDF)
}
