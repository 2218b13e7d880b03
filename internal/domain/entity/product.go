package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de la tienda.
// Stock y CostPrice solo cambian vía transacciones del ledger (BUY/SELL); el resto son datos de catálogo.
type Product struct {
	ID            string
	Name          string
	Description   string
	Category      string           // etiqueta libre; vacía = "Uncategorized" en reportes
	Price         decimal.Decimal  // precio de venta de lista
	DiscountPrice *decimal.Decimal // precio con descuento (opcional)
	CostPrice     decimal.Decimal  // costo base por unidad
	Stock         int              // nunca negativo
	Image         string
	Images        []string
	Rating        decimal.Decimal // agregado de reseñas, no se usa en analítica
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CategoryLabel devuelve la categoría o la etiqueta por defecto si está vacía.
func (p *Product) CategoryLabel() string {
	if p.Category == "" {
		return UncategorizedLabel
	}
	return p.Category
}

// UncategorizedLabel agrupa en reportes los productos sin categoría.
const UncategorizedLabel = "Uncategorized"
