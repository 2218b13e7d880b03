package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta una función dentro de una transacción del store, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback; si no, commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		ledgerRepo repository.TransactionRepository,
	) error) error
}

// TransactionRecorded evento emitido después del commit de una transacción del ledger.
type TransactionRecorded struct {
	TransactionID string          `json:"transactionId"`
	Type          string          `json:"type"`
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Total         decimal.Decimal `json:"total"`
	StockAfter    int             `json:"stockAfter"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	Date          time.Time       `json:"date"`
}

// TransactionPublisher publica eventos del ledger hacia otros servicios.
type TransactionPublisher interface {
	Publish(ctx context.Context, evt TransactionRecorded) error
}

// NopPublisher descarta los eventos. Se usa cuando no hay broker configurado.
type NopPublisher struct{}

// Publish no hace nada.
func (NopPublisher) Publish(context.Context, TransactionRecorded) error { return nil }
