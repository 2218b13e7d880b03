package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementValidate(t *testing.T) {
	cases := []struct {
		name  string
		mov   inventory.Movement
		field string
	}{
		{"tipo desconocido", inventory.Movement{Kind: "RETURN", ProductID: "p1", Quantity: 1}, "type"},
		{"sin producto", inventory.Movement{Kind: entity.TransactionBuy, Quantity: 1}, "productId"},
		{"cantidad cero", inventory.Movement{Kind: entity.TransactionSell, ProductID: "p1"}, "quantity"},
		{"cantidad negativa", inventory.Movement{Kind: entity.TransactionSell, ProductID: "p1", Quantity: -2}, "quantity"},
		{"precio negativo", inventory.Movement{Kind: entity.TransactionBuy, ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}, "price"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mov.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	ok := inventory.Movement{Kind: entity.TransactionBuy, ProductID: "p1", Quantity: 3, UnitPrice: decimal.Zero}
	assert.NoError(t, ok.Validate(), "precio cero es válido")
}

func TestMovementStockDeltaAndCost(t *testing.T) {
	buy := inventory.Movement{Kind: entity.TransactionBuy, Quantity: 10, UnitPrice: decimal.NewFromInt(90), UpdateCostPrice: true}
	assert.Equal(t, 10, buy.StockDelta())
	require.NotNil(t, buy.CostPriceUpdate())
	assert.True(t, buy.CostPriceUpdate().Equal(decimal.NewFromInt(90)))

	sell := inventory.Movement{Kind: entity.TransactionSell, Quantity: 4, UnitPrice: decimal.NewFromInt(150), UpdateCostPrice: true}
	assert.Equal(t, -4, sell.StockDelta())
	assert.Nil(t, sell.CostPriceUpdate(), "SELL nunca modifica el costo base")

	buy.UpdateCostPrice = false
	assert.Nil(t, buy.CostPriceUpdate())
}

func TestApplyStockDelta(t *testing.T) {
	now := time.Now()
	p := &entity.Product{ID: "p1", Stock: 5, CostPrice: decimal.NewFromInt(100)}

	err := inventory.ApplyStockDelta(p, -6, nil, now)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, p.Stock, "un rechazo no modifica el stock")

	cost := decimal.NewFromInt(90)
	require.NoError(t, inventory.ApplyStockDelta(p, 10, &cost, now))
	assert.Equal(t, 15, p.Stock)
	assert.True(t, p.CostPrice.Equal(cost))

	require.NoError(t, inventory.ApplyStockDelta(p, -15, nil, now))
	assert.Equal(t, 0, p.Stock)
}

func TestNewTransactionSnapshotsNameAndTotal(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := &entity.Product{ID: "p1", Name: "Audífonos"}
	mov := inventory.Movement{Kind: entity.TransactionBuy, ProductID: "p1", Quantity: 10, UnitPrice: decimal.NewFromInt(90)}

	tx := inventory.NewTransaction("tx-1", mov, p, now)
	p.Name = "Audífonos Pro"

	assert.Equal(t, "Audífonos", tx.ProductName)
	assert.True(t, tx.Total.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, now, tx.Date)
	assert.Equal(t, entity.TransactionBuy, tx.Kind)
}
