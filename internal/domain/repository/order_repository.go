package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// OrderFilter filtros del listado de pedidos. Los campos vacíos no filtran.
type OrderFilter struct {
	UserID string
	Status entity.OrderStatus
}

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// List devuelve los pedidos del más reciente al más antiguo.
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
}
