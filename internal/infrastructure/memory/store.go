// Package memory implementa los repositorios en memoria (desarrollo y tests).
// Todos los repositorios de un Store comparten el mismo estado y el mismo lock.
package memory

import (
	"sync"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// Store estado compartido en memoria.
type Store struct {
	mu sync.RWMutex

	products     map[string]*entity.Product
	productOrder []string // orden de creación

	ledger []ledgerEntry
	seq    int64

	categories    map[string]*entity.Category // por slug
	categoryOrder []string

	users     map[string]*entity.User // por email normalizado
	userOrder []string

	orders []*entity.Order // orden de creación
}

type ledgerEntry struct {
	seq int64
	tx  entity.Transaction
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*entity.Product),
		categories: make(map[string]*entity.Category),
		users:      make(map[string]*entity.User),
	}
}

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Stock repositorio de stock fuera de transacción.
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }

// Transactions ledger.
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{s: s} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Orders repositorio de pedidos.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// TxRunner runner transaccional sobre este store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	if p.DiscountPrice != nil {
		d := *p.DiscountPrice
		c.DiscountPrice = &d
	}
	if p.Images != nil {
		c.Images = append([]string(nil), p.Images...)
	}
	return &c
}
