package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/farmerp/stockledger-api/internal/application/dto"
	"github.com/farmerp/stockledger-api/internal/application/ledger"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// LedgerHandler handles the stock ledger operations: add, use, adjust and the
// audit trail.
type LedgerHandler struct {
	uc *ledger.UseCase
}

// NewLedgerHandler builds the handler.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// AddStock godoc
// @Summary      Record a stock purchase
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockRequest  true  "item_id, quantity, unit_cost plus optional lot metadata"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/add [post]
func (h *LedgerHandler) AddStock(c *fiber.Ctx) error {
	var in dto.AddStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return invalid(c, err)
	}
	tx, err := h.uc.RecordAdd(c.Context(), ledger.AddStockInput{
		ItemID:       in.ItemID,
		Quantity:     in.Quantity,
		UnitCost:     in.UnitCost,
		PurchaseDate: in.PurchaseDate,
		Supplier:     in.Supplier,
		BatchNumber:  in.BatchNumber,
		ExpiryDate:   in.ExpiryDate,
		PONumber:     in.PONumber,
		Notes:        in.Notes,
		Actor:        actorFrom(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransactionResponse(tx))
}

// UseStock godoc
// @Summary      Consume stock in FIFO order
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UseStockRequest  true  "item_id, quantity, purpose"
// @Success      201   {object}  dto.UseStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/use [post]
func (h *LedgerHandler) UseStock(c *fiber.Ctx) error {
	var in dto.UseStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return invalid(c, err)
	}
	tx, totalCost, err := h.uc.RecordUse(c.Context(), ledger.UseStockInput{
		ItemID:    in.ItemID,
		Quantity:  in.Quantity,
		Purpose:   in.Purpose,
		ModuleRef: in.ModuleReference,
		TankID:    in.TankID,
		Notes:     in.Notes,
		Actor:     actorFrom(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UseStockResponse{
		Transaction: dto.NewTransactionResponse(tx),
		TotalCost:   totalCost,
	})
}

// Adjust godoc
// @Summary      Record a manual stock adjustment
// @Description  increase and decrease take quantity_change; recount takes
//               target_quantity and resolves the delta itself. reason is mandatory.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "Adjustment data"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/adjustment [post]
func (h *LedgerHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return invalid(c, err)
	}
	tx, err := h.uc.RecordAdjustment(c.Context(), ledger.AdjustmentInput{
		ItemID:         in.ItemID,
		Type:           in.AdjustmentType,
		QuantityChange: in.QuantityChange,
		TargetQuantity: in.TargetQuantity,
		UnitCost:       in.UnitCost,
		Reason:         in.Reason,
		Notes:          in.Notes,
		Actor:          actorFrom(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTransactionResponse(tx))
}

// ListTransactions godoc
// @Summary      List the audit trail, newest first
// @Tags         stock
// @Produce      json
// @Param        item_id  query  string  false  "Filter by item"
// @Param        type     query  string  false  "add | use | adjustment"
// @Param        from     query  string  false  "RFC3339 lower bound on created_at"
// @Param        limit    query  int     false  "Page size"  default(20)
// @Param        offset   query  int     false  "Page offset"
// @Success      200      {array}  dto.TransactionResponse
// @Router       /api/stock/transactions [get]
func (h *LedgerHandler) ListTransactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		ItemID: c.Query("item_id"),
		Type:   c.Query("type"),
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from must be RFC3339"})
		}
		filter.From = &from
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	txs, err := h.uc.ListTransactions(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, dto.NewTransactionResponse(tx))
	}
	return c.JSON(out)
}
