package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmerp/stockledger-api/internal/application/dto"
	"github.com/farmerp/stockledger-api/internal/application/ledger"
	"github.com/farmerp/stockledger-api/internal/application/usecase"
)

// PurchaseOrderHandler handles purchase orders and their receipt bridge into
// the ledger.
type PurchaseOrderHandler struct {
	uc     *usecase.PurchaseOrderUseCase
	ledger *ledger.UseCase
}

// NewPurchaseOrderHandler builds the handler.
func NewPurchaseOrderHandler(uc *usecase.PurchaseOrderUseCase, ledgerUC *ledger.UseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc, ledger: ledgerUC}
}

// Create godoc
// @Summary      Create a purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePORequest  true  "Order with lines"
// @Success      201   {object}  dto.POResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePORequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return invalid(c, err)
	}
	out, err := h.uc.Create(c.Context(), actorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Get one purchase order with lines
// @Tags         purchase-orders
// @Produce      json
// @Param        id   path  string  true  "Order ID"
// @Success      200  {object}  dto.POResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        status  query  string  false  "pending | partial | received | cancelled"
// @Param        limit   query  int     false  "Page size"  default(20)
// @Param        offset  query  int     false  "Page offset"
// @Success      200     {array}  dto.POResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.Context(), c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Post received lines into the stock ledger
// @Description  Each line is received atomically on its own; the response
//               reports per-line success or failure. Over-receipt is rejected.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Order ID"
// @Param        body  body  dto.ReceivePORequest  true  "Received lines"
// @Success      200   {array}  dto.ReceiveLineResultDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePORequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return invalid(c, err)
	}
	receipts := make([]ledger.LineReceipt, 0, len(in.Lines))
	for _, l := range in.Lines {
		receipts = append(receipts, ledger.LineReceipt{
			LineID:   l.LineID,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
		})
	}
	results := h.ledger.ReceivePO(c.Context(), c.Params("id"), receipts, actorFrom(c))

	out := make([]dto.ReceiveLineResultDTO, 0, len(results))
	for _, r := range results {
		item := dto.ReceiveLineResultDTO{LineID: r.LineID, OK: r.Err == nil}
		if r.Err != nil {
			item.Error = r.Err.Error()
		}
		if r.Transaction != nil {
			tx := dto.NewTransactionResponse(r.Transaction)
			item.Transaction = &tx
		}
		out = append(out, item)
	}
	return c.JSON(out)
}
