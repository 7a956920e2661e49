package reports

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmerp/stockledger-api/internal/application/dto"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// UseCase builds reporting projections over the ledger. Read-only.
type UseCase struct {
	reportRepo repository.ReportRepository
	pdfGen     StockReportPDFGenerator
}

// NewUseCase builds the reports use case. pdfGen may be nil when the PDF
// surface is not wired; PDF requests then fail with ErrPDFNotConfigured.
func NewUseCase(reportRepo repository.ReportRepository, pdfGen StockReportPDFGenerator) *UseCase {
	return &UseCase{reportRepo: reportRepo, pdfGen: pdfGen}
}

// StockValuation values every item's remaining stock at its FIFO lot costs.
// Zero-cost quantities (adjustment increases) are included in the on-hand
// figure but surfaced separately so readers can exclude them from valuation.
func (uc *UseCase) StockValuation(ctx context.Context) (*dto.StockValuationReportDTO, error) {
	rows, err := uc.reportRepo.StockValuation(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.StockValuationReportDTO{
		GeneratedAt: time.Now(),
		Rows:        make([]dto.StockValuationRowDTO, 0, len(rows)),
		TotalValue:  decimal.Zero,
	}
	for _, r := range rows {
		report.Rows = append(report.Rows, dto.StockValuationRowDTO{
			ItemID:      r.ItemID,
			Name:        r.Name,
			Unit:        r.Unit,
			Category:    r.Category,
			QtyOnHand:   r.QtyOnHand,
			AvgUnitCost: r.AvgUnitCost,
			TotalValue:  r.TotalValue,
			ZeroCostQty: r.ZeroCostQty,
		})
		report.TotalValue = report.TotalValue.Add(r.TotalValue)
	}
	return report, nil
}

// ErrPDFNotConfigured is returned when no PDF generator was wired.
var ErrPDFNotConfigured = errors.New("pdf generator not configured")

// StockValuationPDF renders the valuation report as a PDF document.
func (uc *UseCase) StockValuationPDF(ctx context.Context) ([]byte, error) {
	if uc.pdfGen == nil {
		return nil, ErrPDFNotConfigured
	}
	report, err := uc.StockValuation(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdfGen.GenerateStockValuationPDF(ctx, report)
}
