package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

type transactionDoc struct {
	ID          string               `bson:"_id"`
	Seq         int64                `bson:"seq"`
	Kind        string               `bson:"type"`
	ProductID   string               `bson:"productId"`
	ProductName string               `bson:"productName"`
	Quantity    int                  `bson:"quantity"`
	UnitPrice   primitive.Decimal128 `bson:"price"`
	Total       primitive.Decimal128 `bson:"total"`
	Date        time.Time            `bson:"date"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

// TransactionRepo ledger append-only sobre MongoDB.
type TransactionRepo struct {
	db   *mongo.Database
	sess mongo.Session
}

// Append inserta la entrada con un seq creciente que desempata fechas iguales.
func (r *TransactionRepo) Append(ctx context.Context, tx *entity.Transaction) error {
	ctx = withSession(ctx, r.sess)
	seq, err := nextSeq(ctx, r.db, colTransactions)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	doc := transactionDoc{
		ID: tx.ID, Seq: seq, Kind: string(tx.Kind), ProductID: tx.ProductID, ProductName: tx.ProductName,
		Quantity: tx.Quantity, UnitPrice: toDecimal128(tx.UnitPrice), Total: toDecimal128(tx.Total),
		Date: tx.Date, CreatedAt: tx.CreatedAt,
	}
	if _, err := r.db.Collection(colTransactions).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List devuelve las transacciones filtradas de la más reciente a la más antigua.
func (r *TransactionRepo) List(ctx context.Context, filter repository.TransactionFilter) ([]*entity.Transaction, error) {
	ctx = withSession(ctx, r.sess)
	q := bson.M{}
	if filter.ProductID != "" {
		q["productId"] = filter.ProductID
	}
	if filter.Kind != "" {
		q["type"] = string(filter.Kind)
	}
	if filter.From != nil || filter.To != nil {
		rng := bson.M{}
		if filter.From != nil {
			rng["$gte"] = *filter.From
		}
		if filter.To != nil {
			rng["$lte"] = *filter.To
		}
		q["date"] = rng
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "seq", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := r.db.Collection(colTransactions).Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	var docs []transactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]*entity.Transaction, 0, len(docs))
	for _, d := range docs {
		out = append(out, &entity.Transaction{
			ID: d.ID, Kind: entity.TransactionKind(d.Kind), ProductID: d.ProductID, ProductName: d.ProductName,
			Quantity: d.Quantity, UnitPrice: fromDecimal128(d.UnitPrice), Total: fromDecimal128(d.Total),
			Date: d.Date, CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}
