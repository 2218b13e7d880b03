package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tipo cerrado de movimiento del ledger.
type TransactionKind string

// Tipos de transacción de inventario.
const (
	TransactionBuy  TransactionKind = "BUY"  // entrada de stock (compra)
	TransactionSell TransactionKind = "SELL" // salida de stock (venta); única fuente de ingresos
)

// Valid indica si el tipo es BUY o SELL.
func (k TransactionKind) Valid() bool {
	return k == TransactionBuy || k == TransactionSell
}

// Transaction es una entrada inmutable del ledger. Se crea una vez por operación de stock y nunca se modifica.
// ProductName es una copia del nombre al momento de crearla: renombrar el producto no altera el histórico.
type Transaction struct {
	ID          string
	Kind        TransactionKind
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal // precio efectivamente usado, independiente del precio de lista
	Total       decimal.Decimal // Quantity * UnitPrice
	Date        time.Time
	CreatedAt   time.Time
}
