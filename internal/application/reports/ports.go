package reports

import (
	"context"

	"github.com/farmerp/stockledger-api/internal/application/dto"
)

// StockReportPDFGenerator renders the stock valuation report as PDF bytes.
// Implemented in infrastructure (maroto).
type StockReportPDFGenerator interface {
	GenerateStockValuationPDF(ctx context.Context, report *dto.StockValuationReportDTO) ([]byte, error)
}
