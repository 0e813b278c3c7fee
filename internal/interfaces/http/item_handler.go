package http

import (
	"github.com/costeopro/costeo-api/internal/application/dto"
	"github.com/costeopro/costeo-api/internal/application/item"
	"github.com/gofiber/fiber/v2"
)

// ItemHandler maneja las peticiones HTTP del maestro de artículos (protegido).
// Las operaciones de costeo (método, descuento, precios, recálculo) viven en
// rutas dedicadas; el update genérico solo toca campos descriptivos.
type ItemHandler struct {
	uc *item.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *item.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ítem
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.SKU == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sku y name son requeridos"})
	}
	out, err := h.uc.Create(companyID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	// Un ítem de otra empresa se responde como inexistente.
	if out == nil || out.CompanyID != companyID {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ítems de la empresa
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(companyID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos descriptivos del ítem
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), companyID, id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ítem
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(companyID, id); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── operaciones de costeo ──

// ChangeCalcMethod godoc
// @Summary      Cambiar método de cálculo del costo comercial
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.ChangeCalcMethodRequest  true  "Método nuevo"
// @Success      200   {object}  dto.CostingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/calc-method [put]
func (h *ItemHandler) ChangeCalcMethod(c *fiber.Ctx) error {
	return h.costingOp(c, func(companyID, id string, c *fiber.Ctx) (*dto.CostingResponse, error) {
		var in dto.ChangeCalcMethodRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, errInvalidBody
		}
		return h.uc.ChangeCalcMethod(c.Context(), companyID, id, in)
	})
}

// ChangeDiscount godoc
// @Summary      Fijar porcentaje de descuento
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.ChangeDiscountRequest  true  "Porcentaje [0,100]"
// @Success      200   {object}  dto.CostingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/discount [put]
func (h *ItemHandler) ChangeDiscount(c *fiber.Ctx) error {
	return h.costingOp(c, func(companyID, id string, c *fiber.Ctx) (*dto.CostingResponse, error) {
		var in dto.ChangeDiscountRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, errInvalidBody
		}
		return h.uc.ChangeDiscountPercentage(c.Context(), companyID, id, in)
	})
}

// ChangeUnitPrice godoc
// @Summary      Cambiar precio de lista
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.ChangeUnitPriceRequest  true  "Precio nuevo"
// @Success      200   {object}  dto.CostingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/unit-price [put]
func (h *ItemHandler) ChangeUnitPrice(c *fiber.Ctx) error {
	return h.costingOp(c, func(companyID, id string, c *fiber.Ctx) (*dto.CostingResponse, error) {
		var in dto.ChangeUnitPriceRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, errInvalidBody
		}
		return h.uc.ChangeUnitPrice(c.Context(), companyID, id, in)
	})
}

// ChangeUnitCost godoc
// @Summary      Cambiar costo unitario
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.ChangeUnitCostRequest  true  "Costo nuevo"
// @Success      200   {object}  dto.CostingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/unit-cost [put]
func (h *ItemHandler) ChangeUnitCost(c *fiber.Ctx) error {
	return h.costingOp(c, func(companyID, id string, c *fiber.Ctx) (*dto.CostingResponse, error) {
		var in dto.ChangeUnitCostRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, errInvalidBody
		}
		return h.uc.ChangeUnitCost(c.Context(), companyID, id, in)
	})
}

// ChangeLastDirectCost godoc
// @Summary      Cambiar último costo directo
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.ChangeLastDirectCostRequest  true  "Costo nuevo"
// @Success      200   {object}  dto.CostingResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/last-direct-cost [put]
func (h *ItemHandler) ChangeLastDirectCost(c *fiber.Ctx) error {
	return h.costingOp(c, func(companyID, id string, c *fiber.Ctx) (*dto.CostingResponse, error) {
		var in dto.ChangeLastDirectCostRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, errInvalidBody
		}
		return h.uc.ChangeLastDirectCost(c.Context(), companyID, id, in)
	})
}

// SetCommercialCost godoc
// @Summary      Fijar costo comercial manual
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.SetCommercialCostRequest  true  "Costo comercial"
// @Success      200   {object}  dto.CostingResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/commercial-cost [put]
func (h *ItemHandler) SetCommercialCost(c *fiber.Ctx) error {
	return h.costingOp(c, func(companyID, id string, c *fiber.Ctx) (*dto.CostingResponse, error) {
		var in dto.SetCommercialCostRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, errInvalidBody
		}
		return h.uc.SetCommercialCost(c.Context(), companyID, id, in)
	})
}

// Recalculate godoc
// @Summary      Recalcular costo comercial del ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.CostingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/recalculate [post]
func (h *ItemHandler) Recalculate(c *fiber.Ctx) error {
	return h.costingOp(c, func(companyID, id string, c *fiber.Ctx) (*dto.CostingResponse, error) {
		return h.uc.Recalculate(c.Context(), companyID, id)
	})
}

// Editability godoc
// @Summary      Estado de edición de los campos de costeo
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.EditabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/editability [get]
func (h *ItemHandler) Editability(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Editability(companyID, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// errInvalidBody marca un cuerpo que no parsea; costingOp lo traduce a 400.
var errInvalidBody = fiber.NewError(fiber.StatusBadRequest, "cuerpo inválido")

// costingOp factoriza el esqueleto común de las operaciones de costeo:
// tenancy, id de ruta, ejecución y mapeo de la taxonomía de errores.
func (h *ItemHandler) costingOp(c *fiber.Ctx, op func(companyID, id string, c *fiber.Ctx) (*dto.CostingResponse, error)) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := op(companyID, id, c)
	if err != nil {
		if err == errInvalidBody {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
		return domainError(c, err)
	}
	return c.JSON(out)
}
