package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// OrderRepo implementa repository.OrderRepository.
type OrderRepo struct {
	s *Store
}

var _ repository.OrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError("memory.Order.Create", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.orders {
		if existing.ID == o.ID {
			return domain.ErrDuplicate
		}
	}
	r.s.orders = append(r.s.orders, cloneOrder(o))
	return nil
}

// List recorre de atrás hacia adelante: más reciente primero, empates por inserción.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.Order.List", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Order, 0)
	for i := len(r.s.orders) - 1; i >= 0; i-- {
		o := r.s.orders[i]
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = append([]entity.OrderItem(nil), o.Items...)
	return &c
}
