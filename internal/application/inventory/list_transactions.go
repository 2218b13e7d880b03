package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/analytics"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// MaxListLimit tope de filas por consulta al ledger.
const MaxListLimit = 500

// ListTransactionsUseCase consulta el ledger, más recientes primero.
type ListTransactionsUseCase struct {
	ledgerRepo repository.TransactionRepository
	loc        *time.Location
	log        *logger.Logger
}

// NewListTransactionsUseCase construye el caso de uso. loc es la zona de las fechas sin hora; log puede ser nil.
func NewListTransactionsUseCase(ledgerRepo repository.TransactionRepository, loc *time.Location, log *logger.Logger) *ListTransactionsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ListTransactionsUseCase{ledgerRepo: ledgerRepo, loc: loc, log: log}
}

// List aplica los filtros opcionales. Sin limit devuelve todas las entradas.
func (uc *ListTransactionsUseCase) List(ctx context.Context, in dto.ListTransactionsRequest) ([]dto.TransactionResponse, error) {
	filter := repository.TransactionFilter{ProductID: strings.TrimSpace(in.ProductID)}

	if in.Type != "" {
		kind := entity.TransactionKind(strings.ToUpper(in.Type))
		if !kind.Valid() {
			return nil, domain.NewValidationError("type", "debe ser BUY o SELL")
		}
		filter.Kind = kind
	}

	w, err := analytics.ParseWindow(in.StartDate, in.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}
	filter.From, filter.To = w.From, w.To

	switch {
	case in.Limit < 0:
		return nil, domain.NewValidationError("limit", "no puede ser negativo")
	case in.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	default:
		filter.Limit = in.Limit
	}

	txs, err := uc.ledgerRepo.List(ctx, filter)
	if err != nil {
		err = domain.StoreError("inventory.ListTransactions", err)
		var storeErr *domain.StoreAccessError
		if errors.As(err, &storeErr) {
			uc.log.Error().Err(err).Str("product_id", filter.ProductID).Msg("consulta del ledger falló")
		}
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionResponse(tx))
	}
	return out, nil
}
