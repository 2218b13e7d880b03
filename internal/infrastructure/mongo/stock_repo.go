package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre MongoDB.
type StockRepo struct {
	db   *mongo.Database
	sess mongo.Session // nil fuera de TxRunner
}

// AdjustStock usa FindOneAndUpdate con la guarda stock >= -delta en el filtro:
// el chequeo y el $inc son una sola operación atómica sobre el documento.
func (r *StockRepo) AdjustStock(ctx context.Context, productID string, delta int, costPrice *decimal.Decimal) (*entity.Product, error) {
	ctx = withSession(ctx, r.sess)
	col := r.db.Collection(colProducts)

	set := bson.M{"updatedAt": time.Now().UTC()}
	if costPrice != nil {
		set["costPrice"] = toDecimal128(*costPrice)
	}
	var doc productDoc
	err := col.FindOneAndUpdate(ctx,
		bson.M{"_id": productID, "stock": bson.M{"$gte": -delta}},
		bson.M{"$inc": bson.M{"stock": delta}, "$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toEntity(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	var cur struct {
		Stock int `bson:"stock"`
	}
	err = col.FindOne(ctx, bson.M{"_id": productID},
		options.FindOne().SetProjection(bson.M{"stock": 1})).Decode(&cur)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("read stock: %w", err)
	}
	return nil, &domain.InsufficientStockError{ProductID: productID, Available: cur.Stock, Requested: -delta}
}
