package memory

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct {
	s *Store
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

// Create inserta un producto. Devuelve ErrDuplicate si el ID ya existe.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError("memory.Product.Create", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.ID] = cloneProduct(p)
	r.s.productOrder = append(r.s.productOrder, p.ID)
	return nil
}

// GetByID devuelve una copia del producto o (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.Product.GetByID", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

// Update reemplaza los datos de catálogo; conserva Stock, CostPrice y CreatedAt.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError("memory.Product.Update", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return &domain.NotFoundError{Resource: "producto", ID: p.ID}
	}
	next := cloneProduct(p)
	next.Stock = cur.Stock
	next.CostPrice = cur.CostPrice
	next.CreatedAt = cur.CreatedAt
	if next.UpdatedAt.IsZero() {
		next.UpdatedAt = time.Now().UTC()
	}
	r.s.products[p.ID] = next
	return nil
}

// Delete elimina el producto. Las transacciones del ledger no se tocan.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return domain.StoreError("memory.Product.Delete", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return &domain.NotFoundError{Resource: "producto", ID: id}
	}
	delete(r.s.products, id)
	for i, pid := range r.s.productOrder {
		if pid == id {
			r.s.productOrder = append(r.s.productOrder[:i], r.s.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

// List devuelve productos del más reciente al más antiguo, filtrando por categoría.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.Product.List", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.Product, 0)
	skipped := 0
	for i := len(r.s.productOrder) - 1; i >= 0; i-- {
		p := r.s.products[r.s.productOrder[i]]
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		out = append(out, cloneProduct(p))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// ListAll devuelve todos los productos en orden de creación.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.StoreError("memory.Product.ListAll", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(r.s.productOrder))
	for _, id := range r.s.productOrder {
		out = append(out, cloneProduct(r.s.products[id]))
	}
	return out, nil
}
