package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

type transactionRow struct {
	ID          string          `db:"id"`
	Kind        string          `db:"kind"`
	ProductID   string          `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Total       decimal.Decimal `db:"total"`
	Date        string          `db:"date"`
	CreatedAt   string          `db:"created_at"`
}

// TransactionRepo ledger append-only sobre SQLite. seq (AUTOINCREMENT) desempata fechas iguales.
type TransactionRepo struct {
	q Queryer
}

// NewTransactionRepository construye el adaptador del ledger.
func NewTransactionRepository(q Queryer) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Append inserta una entrada del ledger.
func (r *TransactionRepo) Append(ctx context.Context, tx *entity.Transaction) error {
	row := transactionRow{
		ID: tx.ID, Kind: string(tx.Kind), ProductID: tx.ProductID, ProductName: tx.ProductName,
		Quantity: tx.Quantity, UnitPrice: tx.UnitPrice, Total: tx.Total,
		Date: formatTime(tx.Date), CreatedAt: formatTime(tx.CreatedAt),
	}
	_, err := sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO transactions (id, kind, product_id, product_name, quantity, unit_price, total, date, created_at)
		VALUES (:id, :kind, :product_id, :product_name, :quantity, :unit_price, :total, :date, :created_at)`, row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List devuelve las transacciones filtradas de la más reciente a la más antigua.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ProductID != "" {
		conds = append(conds, "product_id = ?")
		args = append(args, filter.ProductID)
	}
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.From != nil {
		conds = append(conds, "date >= ?")
		args = append(args, formatTime(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "date <= ?")
		args = append(args, formatTime(*filter.To))
	}
	query := `SELECT id, kind, product_id, product_name, quantity, unit_price, total, date, created_at FROM transactions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, seq DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	var rows []transactionRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]*entity.Transaction, 0, len(rows))
	for _, row := range rows {
		date, err := parseTime(row.Date)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		created, err := parseTime(row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		out = append(out, &entity.Transaction{
			ID: row.ID, Kind: entity.TransactionKind(row.Kind), ProductID: row.ProductID,
			ProductName: row.ProductName, Quantity: row.Quantity, UnitPrice: row.UnitPrice,
			Total: row.Total, Date: date, CreatedAt: created,
		})
	}
	return out, nil
}
