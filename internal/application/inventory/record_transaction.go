package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// RecordTransactionUseCase registra compras y ventas: ajusta el stock con un UPDATE
// condicional y agrega la entrada al ledger en la misma transacción.
type RecordTransactionUseCase struct {
	txRunner  TxRunner
	publisher TransactionPublisher
	log       *logger.Logger
	now       func() time.Time
	newID     func() string
}

// NewRecordTransactionUseCase construye el caso de uso. publisher y log pueden ser nil.
func NewRecordTransactionUseCase(txRunner TxRunner, publisher TransactionPublisher, log *logger.Logger) *RecordTransactionUseCase {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RecordTransactionUseCase{
		txRunner:  txRunner,
		publisher: publisher,
		log:       log,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// Record valida el movimiento y lo aplica de forma atómica. Errores posibles:
// ValidationError, NotFoundError, InsufficientStockError o StoreAccessError.
// No reintenta.
func (uc *RecordTransactionUseCase) Record(ctx context.Context, mov inventory.Movement) (*entity.Transaction, error) {
	if err := mov.Validate(); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	var (
		recorded *entity.Transaction
		product  *entity.Product
	)
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockRepository, ledgerRepo repository.TransactionRepository) error {
		p, err := stockRepo.AdjustStock(ctx, mov.ProductID, mov.StockDelta(), mov.CostPriceUpdate())
		if err != nil {
			return err
		}
		if p == nil {
			return &domain.NotFoundError{Resource: "producto", ID: mov.ProductID}
		}
		tx := inventory.NewTransaction(uc.newID(), mov, p, now)
		if err := ledgerRepo.Append(ctx, tx); err != nil {
			return err
		}
		recorded, product = tx, p
		return nil
	})
	if err != nil {
		err = domain.StoreError("inventory.Record", err)
		var storeErr *domain.StoreAccessError
		if errors.As(err, &storeErr) {
			uc.log.Error().Err(err).Str("product_id", mov.ProductID).Str("type", string(mov.Kind)).Msg("registro de transacción falló")
		}
		return nil, err
	}

	uc.log.Info().
		Str("transaction_id", recorded.ID).
		Str("type", string(recorded.Kind)).
		Str("product_id", recorded.ProductID).
		Int("quantity", recorded.Quantity).
		Int("stock_after", product.Stock).
		Msg("transacción registrada")

	evt := TransactionRecorded{
		TransactionID: recorded.ID,
		Type:          string(recorded.Kind),
		ProductID:     recorded.ProductID,
		ProductName:   recorded.ProductName,
		Quantity:      recorded.Quantity,
		Price:         recorded.UnitPrice,
		Total:         recorded.Total,
		StockAfter:    product.Stock,
		CostPrice:     product.CostPrice,
		Date:          recorded.Date,
	}
	// El ledger ya está confirmado: un fallo del broker solo se registra.
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", recorded.ID).Msg("no se pudo publicar el evento de transacción")
	}
	return recorded, nil
}

// RecordFromRequest adapta el body HTTP al caso de uso.
func (uc *RecordTransactionUseCase) RecordFromRequest(ctx context.Context, in dto.RecordTransactionRequest) (*dto.TransactionResponse, error) {
	price := in.PriceValue()
	if price == nil {
		return nil, domain.NewValidationError("price", "es requerido")
	}
	mov := inventory.Movement{
		Kind:            entity.TransactionKind(in.KindValue()),
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		UnitPrice:       *price,
		UpdateCostPrice: in.UpdateCostValue(),
	}
	tx, err := uc.Record(ctx, mov)
	if err != nil {
		return nil, err
	}
	out := ToTransactionResponse(tx)
	return &out, nil
}

// ToTransactionResponse convierte una entrada del ledger al DTO de salida.
func ToTransactionResponse(tx *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Kind),
		ProductID:   tx.ProductID,
		ProductName: tx.ProductName,
		Quantity:    tx.Quantity,
		Price:       tx.UnitPrice,
		Total:       tx.Total,
		Date:        tx.Date,
	}
}
