package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmerp/stockledger-api/internal/application/dto"
	"github.com/farmerp/stockledger-api/internal/application/usecase"
	"github.com/farmerp/stockledger-api/internal/domain/repository"
)

// ItemHandler handles item master data.
type ItemHandler struct {
	uc *usecase.ItemUseCase
}

// NewItemHandler builds the handler.
func NewItemHandler(uc *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Create an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Item data"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return invalid(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Get one item
// @Tags         items
// @Produce      json
// @Param        id   path  string  true  "Item ID"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      List items
// @Tags         items
// @Produce      json
// @Param        active    query  bool    false  "Filter by active flag"
// @Param        category  query  string  false  "Filter by category"
// @Success      200       {array}  dto.ItemResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	filter := repository.ItemFilter{Category: c.Query("category")}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true" || raw == "1"
		filter.Active = &active
	}
	out, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Update item master data
// @Description  Quantity is ledger-owned and cannot be edited here.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Item ID"
// @Param        body  body  dto.UpdateItemRequest  true  "Fields to update"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validate.Struct(in); err != nil {
		return invalid(c, err)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Soft-deactivate an item
// @Description  Items are never hard-deleted; lots and transactions must
//               survive for audit and costing lineage.
// @Tags         items
// @Produce      json
// @Param        id   path  string  true  "Item ID"
// @Success      204  "deactivated"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Balance godoc
// @Summary      Reconcile the cached balance against the lot sum
// @Tags         items
// @Produce      json
// @Param        id   path  string  true  "Item ID"
// @Success      200  {object}  dto.ItemBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/balance [get]
func (h *ItemHandler) Balance(c *fiber.Ctx) error {
	out, err := h.uc.Balance(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
