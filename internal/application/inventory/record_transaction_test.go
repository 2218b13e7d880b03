package inventory_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	appinv "github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/infrastructure/memory"
	"github.com/jhoicas/storefront-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─── Helpers de test ──────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []appinv.TransactionRecorded
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt appinv.TransactionRecorded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

// brokenTxRunner falla al abrir la transacción, como un driver sin conexión.
type brokenTxRunner struct{ err error }

func (r brokenTxRunner) Run(context.Context, func(repository.StockRepository, repository.TransactionRepository) error) error {
	return r.err
}

// brokenLedger falla en toda lectura.
type brokenLedger struct{ err error }

func (l brokenLedger) Append(context.Context, *entity.Transaction) error { return l.err }
func (l brokenLedger) List(context.Context, repository.TransactionFilter) ([]*entity.Transaction, error) {
	return nil, l.err
}

func newStore(t *testing.T, stock int, cost string) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID:        "p1",
		Name:      "Audífonos",
		Price:     decimal.NewFromInt(150),
		CostPrice: decimal.RequireFromString(cost),
		Stock:     stock,
	}))
	return s
}

func sell(qty int, price int64) inventory.Movement {
	return inventory.Movement{Kind: entity.TransactionSell, ProductID: "p1", Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

// ─── Record ──────────────────────────────────────────────────────────────────

func TestRecord_BuyWithCostUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 5, "100")
	pub := &recordingPublisher{}
	uc := appinv.NewRecordTransactionUseCase(s.TxRunner(), pub, nil)

	tx, err := uc.Record(ctx, inventory.Movement{
		Kind: entity.TransactionBuy, ProductID: "p1", Quantity: 10,
		UnitPrice: decimal.NewFromInt(90), UpdateCostPrice: true,
	})
	require.NoError(t, err)
	assert.True(t, tx.Total.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, "Audífonos", tx.ProductName)
	assert.NotEmpty(t, tx.ID)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 15, p.Stock)
	assert.True(t, p.CostPrice.Equal(decimal.NewFromInt(90)))

	require.Len(t, pub.events, 1)
	assert.Equal(t, 15, pub.events[0].StockAfter)
	assert.Equal(t, "BUY", pub.events[0].Type)
}

func TestRecord_SellWithoutCostUpdateKeepsCost(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 20, "100")
	uc := appinv.NewRecordTransactionUseCase(s.TxRunner(), nil, nil)

	mov := sell(5, 150)
	mov.UpdateCostPrice = true
	_, err := uc.Record(ctx, mov)
	require.NoError(t, err)

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 15, p.Stock)
	assert.True(t, p.CostPrice.Equal(decimal.NewFromInt(100)), "SELL no toca el costo base")
}

func TestRecord_InsufficientStockLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 3, "100")
	pub := &recordingPublisher{}
	uc := appinv.NewRecordTransactionUseCase(s.TxRunner(), pub, nil)

	_, err := uc.Record(ctx, sell(4, 150))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.False(t, errors.Is(err, domain.ErrStoreAccess), "debe distinguirse de un fallo del store")

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 3, p.Stock)

	txs, err := s.Transactions().List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs, "no se agrega asiento")
	assert.Empty(t, pub.events, "no se publica evento")
}

func TestRecord_ValidationAndNotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 3, "100")
	uc := appinv.NewRecordTransactionUseCase(s.TxRunner(), nil, nil)

	_, err := uc.Record(ctx, sell(0, 150))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Record(ctx, inventory.Movement{Kind: "GIFT", ProductID: "p1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	mov := sell(1, 150)
	mov.ProductID = "missing"
	_, err = uc.Record(ctx, mov)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.ID)
}

func TestRecord_PublishFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 3, "100")
	pub := &recordingPublisher{err: errors.New("broker caído")}
	uc := appinv.NewRecordTransactionUseCase(s.TxRunner(), pub, nil)

	tx, err := uc.Record(ctx, sell(1, 150))
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Len(t, pub.events, 1)
}

func TestRecord_StoreFailureIsWrappedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	runner := brokenTxRunner{err: errors.New("begin transaction: connection refused")}
	uc := appinv.NewRecordTransactionUseCase(runner, nil, logger.NewWithWriter(&buf, "info"))

	_, err := uc.Record(context.Background(), sell(1, 150))
	var storeErr *domain.StoreAccessError
	require.ErrorAs(t, err, &storeErr)
	assert.ErrorIs(t, err, domain.ErrStoreAccess)
	assert.Contains(t, buf.String(), "connection refused")
	assert.Contains(t, buf.String(), `"product_id":"p1"`)
}

func TestRecord_DomainErrorsAreNotLoggedAsFailures(t *testing.T) {
	var buf bytes.Buffer
	s := newStore(t, 1, "100")
	uc := appinv.NewRecordTransactionUseCase(s.TxRunner(), nil, logger.NewWithWriter(&buf, "info"))

	_, err := uc.Record(context.Background(), sell(2, 150))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotContains(t, buf.String(), `"level":"error"`)
}

func TestRecord_ConcurrentSellsNeverOversell(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 7, "100")
	uc := appinv.NewRecordTransactionUseCase(s.TxRunner(), nil, nil)

	var ok, rejected int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Record(ctx, sell(1, 150))
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, domain.ErrInsufficientStock):
				atomic.AddInt32(&rejected, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 7, ok)
	assert.EqualValues(t, 13, rejected)
	p, _ := s.Products().GetByID(ctx, "p1")
	assert.Equal(t, 0, p.Stock)

	txs, err := s.Transactions().List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, txs, 7, "un asiento por venta aceptada")
}

// ─── Request HTTP → caso de uso ──────────────────────────────────────────────

func TestRecordFromRequest_AcceptsAliases(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 5, "100")
	uc := appinv.NewRecordTransactionUseCase(s.TxRunner(), nil, nil)

	price := decimal.NewFromInt(80)
	yes := true
	out, err := uc.RecordFromRequest(ctx, dto.RecordTransactionRequest{
		Kind: "BUY", ProductID: "p1", Quantity: 2, UnitPrice: &price, UpdateCostBasis: &yes,
	})
	require.NoError(t, err)
	assert.Equal(t, "BUY", out.Type)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(160)))

	p, _ := s.Products().GetByID(ctx, "p1")
	assert.True(t, p.CostPrice.Equal(price))

	_, err = uc.RecordFromRequest(ctx, dto.RecordTransactionRequest{Type: "SELL", ProductID: "p1", Quantity: 1})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price", verr.Field)
}

// ─── List ────────────────────────────────────────────────────────────────────

func TestListTransactions_NRecordedNListedNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, 100, "10")
	record := appinv.NewRecordTransactionUseCase(s.TxRunner(), nil, nil)
	list := appinv.NewListTransactionsUseCase(s.Transactions(), nil, nil)

	var ids []string
	for i := 0; i < 6; i++ {
		tx, err := record.Record(ctx, sell(1, 20))
		require.NoError(t, err)
		ids = append(ids, tx.ID)
	}

	got, err := list.List(ctx, dto.ListTransactionsRequest{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, got, 6)
	for i, row := range got {
		assert.Equal(t, ids[len(ids)-1-i], row.ID, "más reciente primero")
	}

	limited, err := list.List(ctx, dto.ListTransactionsRequest{Limit: 2, Type: "sell"})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	_, err = list.List(ctx, dto.ListTransactionsRequest{Type: "RETURN"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = list.List(ctx, dto.ListTransactionsRequest{StartDate: "ayer"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestListTransactions_StoreFailureIsWrappedAndLogged(t *testing.T) {
	var buf bytes.Buffer
	ledger := brokenLedger{err: errors.New("query transactions: connection reset")}
	list := appinv.NewListTransactionsUseCase(ledger, nil, logger.NewWithWriter(&buf, "info"))

	_, err := list.List(context.Background(), dto.ListTransactionsRequest{ProductID: "p1"})
	var storeErr *domain.StoreAccessError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "inventory.ListTransactions", storeErr.Op)
	assert.Contains(t, buf.String(), "connection reset")
}
