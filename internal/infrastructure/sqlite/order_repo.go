package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, items, total_amount, status, payment_status,
	ship_street, ship_city, ship_state, ship_zip_code, ship_country, created_at, updated_at`

type orderRow struct {
	ID            string          `db:"id"`
	UserID        string          `db:"user_id"`
	Items         string          `db:"items"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Status        string          `db:"status"`
	PaymentStatus string          `db:"payment_status"`
	ShipStreet    string          `db:"ship_street"`
	ShipCity      string          `db:"ship_city"`
	ShipState     string          `db:"ship_state"`
	ShipZipCode   string          `db:"ship_zip_code"`
	ShipCountry   string          `db:"ship_country"`
	CreatedAt     string          `db:"created_at"`
	UpdatedAt     string          `db:"updated_at"`
}

// orderItemJSON forma de cada línea dentro de la columna items.
type orderItemJSON struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
}

func (row orderRow) toEntity() (*entity.Order, error) {
	var items []orderItemJSON
	if err := json.Unmarshal([]byte(row.Items), &items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	o := &entity.Order{
		ID:            row.ID,
		UserID:        row.UserID,
		Items:         make([]entity.OrderItem, 0, len(items)),
		TotalAmount:   row.TotalAmount,
		Status:        entity.OrderStatus(row.Status),
		PaymentStatus: entity.PaymentStatus(row.PaymentStatus),
		ShippingAddress: entity.ShippingAddress{
			Street: row.ShipStreet, City: row.ShipCity, State: row.ShipState,
			ZipCode: row.ShipZipCode, Country: row.ShipCountry,
		},
	}
	for _, it := range items {
		o.Items = append(o.Items, entity.OrderItem(it))
	}
	o.CreatedAt, _ = parseTime(row.CreatedAt)
	o.UpdatedAt, _ = parseTime(row.UpdatedAt)
	return o, nil
}

// OrderRepo pedidos sobre SQLite; las líneas se guardan como JSON en la fila del pedido.
type OrderRepo struct {
	q Queryer
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(q Queryer) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el pedido.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	items := make([]orderItemJSON, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemJSON(it))
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode order items: %w", err)
	}
	a := o.ShippingAddress
	row := orderRow{
		ID: o.ID, UserID: o.UserID, Items: string(raw), TotalAmount: o.TotalAmount,
		Status: string(o.Status), PaymentStatus: string(o.PaymentStatus),
		ShipStreet: a.Street, ShipCity: a.City, ShipState: a.State, ShipZipCode: a.ZipCode, ShipCountry: a.Country,
		CreatedAt: formatTime(o.CreatedAt), UpdatedAt: formatTime(o.UpdatedAt),
	}
	_, err = sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES (:id, :user_id, :items, :total_amount, :status, :payment_status,
			:ship_street, :ship_city, :ship_state, :ship_zip_code, :ship_country, :created_at, :updated_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// List devuelve pedidos del más reciente al más antiguo; seq desempata.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	var (
		conds []string
		args  []any
	)
	if filter.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, seq DESC"

	var rows []orderRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]*entity.Order, 0, len(rows))
	for _, row := range rows {
		o, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
