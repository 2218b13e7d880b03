// Package inventory contiene las reglas de dominio de los movimientos de stock:
// validación de la entrada, signo del cambio de stock y armado del asiento del ledger.
package inventory

import (
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Movement entrada normalizada de una operación de stock.
type Movement struct {
	Kind            entity.TransactionKind
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	UpdateCostPrice bool // solo aplica a BUY: sobrescribe el costo base con UnitPrice
}

// Validate verifica tipo, producto, cantidad y precio. No consulta el almacenamiento.
func (m Movement) Validate() error {
	if !m.Kind.Valid() {
		return domain.NewValidationError("type", "debe ser BUY o SELL")
	}
	if m.ProductID == "" {
		return domain.NewValidationError("productId", "es requerido")
	}
	if m.Quantity <= 0 {
		return domain.NewValidationError("quantity", "debe ser un entero positivo")
	}
	if m.UnitPrice.IsNegative() {
		return domain.NewValidationError("price", "no puede ser negativo")
	}
	return nil
}

// StockDelta devuelve +Quantity para BUY y -Quantity para SELL.
func (m Movement) StockDelta() int {
	if m.Kind == entity.TransactionSell {
		return -m.Quantity
	}
	return m.Quantity
}

// CostPriceUpdate devuelve el nuevo costo base si el movimiento lo sobrescribe, o nil.
// Es una sobrescritura simple, no un promedio ponderado.
func (m Movement) CostPriceUpdate() *decimal.Decimal {
	if m.Kind != entity.TransactionBuy || !m.UpdateCostPrice {
		return nil
	}
	price := m.UnitPrice
	return &price
}

// ApplyStockDelta aplica delta sobre el producto en memoria respetando stock >= 0.
// Lo usan los adaptadores que no tienen UPDATE condicional nativo (memoria).
func ApplyStockDelta(p *entity.Product, delta int, costPrice *decimal.Decimal, now time.Time) error {
	if p.Stock+delta < 0 {
		return &domain.InsufficientStockError{ProductID: p.ID, Available: p.Stock, Requested: -delta}
	}
	p.Stock += delta
	if costPrice != nil {
		p.CostPrice = *costPrice
	}
	p.UpdatedAt = now
	return nil
}

// NewTransaction arma el asiento inmutable del ledger con el nombre del producto al momento del registro.
func NewTransaction(id string, m Movement, product *entity.Product, now time.Time) *entity.Transaction {
	return &entity.Transaction{
		ID:          id,
		Kind:        m.Kind,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Total:       m.UnitPrice.Mul(decimal.NewFromInt(int64(m.Quantity))),
		Date:        now,
		CreatedAt:   now,
	}
}
