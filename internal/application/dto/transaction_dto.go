package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordTransactionRequest body para POST /api/transactions.
// Acepta los nombres de campo del panel (type, price, updateCostPrice) y sus alias
// (kind, unitPrice, updateCostBasis); el primero presente gana.
type RecordTransactionRequest struct {
	Type            string           `json:"type"`
	Kind            string           `json:"kind"`
	ProductID       string           `json:"productId"`
	Quantity        int              `json:"quantity"`
	Price           *decimal.Decimal `json:"price"`
	UnitPrice       *decimal.Decimal `json:"unitPrice"`
	UpdateCostPrice *bool            `json:"updateCostPrice"`
	UpdateCostBasis *bool            `json:"updateCostBasis"`
}

// KindValue devuelve type o, si está vacío, kind.
func (r RecordTransactionRequest) KindValue() string {
	if r.Type != "" {
		return r.Type
	}
	return r.Kind
}

// PriceValue devuelve price o unitPrice; nil si ninguno vino en el body.
func (r RecordTransactionRequest) PriceValue() *decimal.Decimal {
	if r.Price != nil {
		return r.Price
	}
	return r.UnitPrice
}

// UpdateCostValue devuelve updateCostPrice o updateCostBasis; false por defecto.
func (r RecordTransactionRequest) UpdateCostValue() bool {
	if r.UpdateCostPrice != nil {
		return *r.UpdateCostPrice
	}
	return r.UpdateCostBasis != nil && *r.UpdateCostBasis
}

// ListTransactionsRequest query de GET /api/transactions.
type ListTransactionsRequest struct {
	ProductID string `query:"productId"`
	Type      string `query:"type"`
	StartDate string `query:"startDate"` // YYYY-MM-DD o RFC3339
	EndDate   string `query:"endDate"`   // YYYY-MM-DD (día completo) o RFC3339
	Limit     int    `query:"limit"`     // 0 = todos; máximo 500
}

// TransactionResponse entrada del ledger.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Date        time.Time       `json:"date"`
}
