package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
)

// TransactionHandler maneja el registro y la consulta del ledger de compras/ventas.
type TransactionHandler struct {
	record *inventory.RecordTransactionUseCase
	list   *inventory.ListTransactionsUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(record *inventory.RecordTransactionUseCase, list *inventory.ListTransactionsUseCase) *TransactionHandler {
	return &TransactionHandler{record: record, list: list}
}

// Record godoc
// @Summary      Registrar compra o venta
// @Description  BUY suma stock (y opcionalmente sobrescribe el costo base); SELL descuenta stock si alcanza.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransactionRequest  true  "type, productId, quantity, price, updateCostPrice"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.record.RecordFromRequest(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar transacciones
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        productId  query  string  false  "filtrar por producto"
// @Param        type       query  string  false  "BUY o SELL"
// @Param        startDate  query  string  false  "YYYY-MM-DD"
// @Param        endDate    query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        limit      query  int     false  "máximo 500"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var in dto.ListTransactionsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Error: "parámetros inválidos"})
	}
	out, err := h.list.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
