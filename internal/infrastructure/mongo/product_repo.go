package mongo

import (
	"context"
	"errors"
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

var _ repository.ProductRepository = (*ProductRepo)(nil)

type productDoc struct {
	ID            string                `bson:"_id"`
	Name          string                `bson:"name"`
	Description   string                `bson:"description"`
	Category      string                `bson:"category"`
	Price         primitive.Decimal128  `bson:"price"`
	DiscountPrice *primitive.Decimal128 `bson:"discountPrice,omitempty"`
	CostPrice     primitive.Decimal128  `bson:"costPrice"`
	Stock         int                   `bson:"stock"`
	Image         string                `bson:"image"`
	Images        []string              `bson:"images"`
	Rating        primitive.Decimal128  `bson:"rating"`
	Seq           int64                 `bson:"seq"`
	CreatedAt     time.Time             `bson:"createdAt"`
	UpdatedAt     time.Time             `bson:"updatedAt"`
}

func toProductDoc(p *entity.Product) productDoc {
	doc := productDoc{
		ID: p.ID, Name: p.Name, Description: p.Description, Category: p.Category,
		Price: toDecimal128(p.Price), CostPrice: toDecimal128(p.CostPrice), Stock: p.Stock,
		Image: p.Image, Images: p.Images, Rating: toDecimal128(p.Rating),
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
	if doc.Images == nil {
		doc.Images = []string{}
	}
	if p.DiscountPrice != nil {
		d := toDecimal128(*p.DiscountPrice)
		doc.DiscountPrice = &d
	}
	return doc
}

func (d productDoc) toEntity() *entity.Product {
	p := &entity.Product{
		ID: d.ID, Name: d.Name, Description: d.Description, Category: d.Category,
		Price: fromDecimal128(d.Price), CostPrice: fromDecimal128(d.CostPrice), Stock: d.Stock,
		Image: d.Image, Images: d.Images, Rating: fromDecimal128(d.Rating),
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
	if d.DiscountPrice != nil {
		v := fromDecimal128(*d.DiscountPrice)
		p.DiscountPrice = &v
	}
	return p
}

// ProductRepo implementación de ProductRepository sobre MongoDB.
type ProductRepo struct {
	db *mongo.Database
}

func (r *ProductRepo) col() *mongo.Collection { return r.db.Collection(colProducts) }

// Create inserta el producto; _id duplicado devuelve ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	doc := toProductDoc(product)
	seq, err := nextSeq(ctx, r.db, colProducts)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	doc.Seq = seq
	if _, err := r.col().InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var doc productDoc
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return doc.toEntity(), nil
}

// Update modifica datos de catálogo; stock y costPrice no se tocan.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	doc := toProductDoc(product)
	set := bson.M{
		"name": doc.Name, "description": doc.Description, "category": doc.Category,
		"price": doc.Price, "image": doc.Image, "images": doc.Images, "updatedAt": doc.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if doc.DiscountPrice != nil {
		set["discountPrice"] = *doc.DiscountPrice
	} else {
		update["$unset"] = bson.M{"discountPrice": ""}
	}
	res, err := r.col().UpdateOne(ctx, bson.M{"_id": product.ID}, update)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: product.ID}
	}
	return nil
}

// Delete elimina el producto; el ledger conserva sus transacciones.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return nil
}

// List del más reciente al más antiguo.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	q := bson.M{}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "seq", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}
	return r.find(ctx, "list products", q, opts)
}

// ListAll devuelve todos los productos en orden de creación.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	return r.find(ctx, "list all products", bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
}

func (r *ProductRepo) find(ctx context.Context, op string, q bson.M, opts *options.FindOptions) ([]*entity.Product, error) {
	cur, err := r.col().Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]*entity.Product, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}
