package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmerp/stockledger-api/internal/application/alerts"
)

// AlertsHandler serves the derived low-stock and expiry views.
type AlertsHandler struct {
	uc *alerts.UseCase
}

// NewAlertsHandler builds the handler.
func NewAlertsHandler(uc *alerts.UseCase) *AlertsHandler {
	return &AlertsHandler{uc: uc}
}

// LowStock godoc
// @Summary      Items at or under their reorder threshold
// @Description  Recomputed from current state on every call, most deficient first.
// @Tags         alerts
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/alerts/low-stock [get]
func (h *AlertsHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStockItems(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// ExpiringLots godoc
// @Summary      Open lots expiring soon
// @Tags         alerts
// @Produce      json
// @Param        days  query  int  false  "Window size in days"
// @Success      200  {array}  dto.ExpiringLotDTO
// @Router       /api/alerts/expiring [get]
func (h *AlertsHandler) ExpiringLots(c *fiber.Ctx) error {
	out, err := h.uc.ExpiringLots(c.Context(), c.QueryInt("days", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "lots": out})
}
