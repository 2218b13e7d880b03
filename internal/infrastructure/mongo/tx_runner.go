package mongo

import (
	"context"
	"fmt"

	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción multi-documento.
type TxRunner struct {
	client *mongo.Client
	db     *mongo.Database
}

// Run abre una sesión y ejecuta fn con repos atados a ella. WithTransaction hace
// commit si fn devuelve nil y abort en otro caso; solo reintenta ante errores
// transitorios del servidor (conflictos de escritura), nunca por stock insuficiente.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	ledgerRepo repository.TransactionRepository,
) error) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&StockRepo{db: r.db, sess: sess}, &TransactionRepo{db: r.db, sess: sess})
	})
	return err
}
