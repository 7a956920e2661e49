package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmerp/stockledger-api/internal/application/reports"
)

// ReportHandler serves reporting projections over the ledger.
type ReportHandler struct {
	uc *reports.UseCase
}

// NewReportHandler builds the handler.
func NewReportHandler(uc *reports.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockValuation godoc
// @Summary      Stock valuation report
// @Description  Every item's remaining stock valued at its FIFO lot costs.
//               Zero-cost quantities are reported in a separate column.
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.StockValuationReportDTO
// @Router       /api/reports/stock-valuation [get]
func (h *ReportHandler) StockValuation(c *fiber.Ctx) error {
	out, err := h.uc.StockValuation(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// StockValuationPDF godoc
// @Summary      Stock valuation report as PDF
// @Tags         reports
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/stock-valuation.pdf [get]
func (h *ReportHandler) StockValuationPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.StockValuationPDF(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-valuation.pdf"`)
	return c.Send(pdfBytes)
}
