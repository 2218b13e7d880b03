package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros para el listado de catálogo.
type ProductFilter struct {
	Category string
	Limit    int // 0 = sin límite
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Update modifica solo datos de catálogo. Stock y CostPrice se manejan vía transacciones.
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// List devuelve productos del más reciente al más antiguo.
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// ListAll devuelve el snapshot completo (orden de creación) usado por analítica.
	ListAll(ctx context.Context) ([]*entity.Product, error)
}

// StockRepository define el puerto para cambiar el stock de un producto.
// Usado dentro de TxRunner para que el cambio y el asiento del ledger sean atómicos.
type StockRepository interface {
	// AdjustStock suma delta al stock en una única actualización condicional (stock + delta >= 0).
	// Si costPrice no es nil sobrescribe el costo base en la misma escritura.
	// Devuelve el producto actualizado, (nil, nil) si no existe, o *domain.InsufficientStockError.
	AdjustStock(ctx context.Context, productID string, delta int, costPrice *decimal.Decimal) (*entity.Product, error)
}
