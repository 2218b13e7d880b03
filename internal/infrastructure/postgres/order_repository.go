package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, items, total_amount, status, payment_status,
	ship_street, ship_city, ship_state, ship_zip_code, ship_country, created_at, updated_at`

// orderItemJSON forma de cada línea dentro de la columna items (JSONB).
type orderItemJSON struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
}

// OrderRepo implementación de OrderRepository sobre PostgreSQL. Las líneas viajan
// con la cabecera en una sola fila, así el pedido se escribe en un único INSERT.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste el pedido con sus líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	items, err := encodeOrderItems(o.Items)
	if err != nil {
		return err
	}
	a := o.ShippingAddress
	_, err = r.q.Exec(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.UserID, items, o.TotalAmount, string(o.Status), string(o.PaymentStatus),
		a.Street, a.City, a.State, a.ZipCode, a.Country, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if verr := checkViolation(err); verr != nil {
			return verr
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// List devuelve pedidos del más reciente al más antiguo; seq desempata.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT ` + orderColumns + ` FROM orders WHERE 1=1`)
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		fmt.Fprintf(&b, " AND user_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&b, " AND status = $%d", len(args))
	}
	b.WriteString(" ORDER BY created_at DESC, seq DESC")

	rows, err := r.q.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list orders scan: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o           entity.Order
		items       []byte
		status, pay string
		a           entity.ShippingAddress
	)
	if err := row.Scan(&o.ID, &o.UserID, &items, &o.TotalAmount, &status, &pay,
		&a.Street, &a.City, &a.State, &a.ZipCode, &a.Country, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	decoded, err := decodeOrderItems(items)
	if err != nil {
		return nil, err
	}
	o.Items, o.Status, o.PaymentStatus, o.ShippingAddress = decoded, entity.OrderStatus(status), entity.PaymentStatus(pay), a
	return &o, nil
}

func encodeOrderItems(items []entity.OrderItem) ([]byte, error) {
	out := make([]orderItemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, orderItemJSON(it))
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode order items: %w", err)
	}
	return raw, nil
}

func decodeOrderItems(raw []byte) ([]entity.OrderItem, error) {
	var in []orderItemJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	out := make([]entity.OrderItem, 0, len(in))
	for _, it := range in {
		out = append(out, entity.OrderItem(it))
	}
	return out, nil
}
