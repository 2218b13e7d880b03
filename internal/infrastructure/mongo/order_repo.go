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

var _ repository.OrderRepository = (*OrderRepo)(nil)

type orderItemDoc struct {
	ProductID string               `bson:"productId"`
	Name      string               `bson:"name"`
	Quantity  int                  `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
	Image     string               `bson:"image"`
}

type addressDoc struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state"`
	ZipCode string `bson:"zipCode"`
	Country string `bson:"country"`
}

type orderDoc struct {
	ID              string               `bson:"_id"`
	Seq             int64                `bson:"seq"`
	User            string               `bson:"user"`
	Items           []orderItemDoc       `bson:"items"`
	TotalAmount     primitive.Decimal128 `bson:"totalAmount"`
	Status          string               `bson:"status"`
	ShippingAddress addressDoc           `bson:"shippingAddress"`
	PaymentStatus   string               `bson:"paymentStatus"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

func (d orderDoc) toEntity() *entity.Order {
	o := &entity.Order{
		ID:            d.ID,
		UserID:        d.User,
		Items:         make([]entity.OrderItem, 0, len(d.Items)),
		TotalAmount:   fromDecimal128(d.TotalAmount),
		Status:        entity.OrderStatus(d.Status),
		PaymentStatus: entity.PaymentStatus(d.PaymentStatus),
		ShippingAddress: entity.ShippingAddress{
			Street: d.ShippingAddress.Street, City: d.ShippingAddress.City, State: d.ShippingAddress.State,
			ZipCode: d.ShippingAddress.ZipCode, Country: d.ShippingAddress.Country,
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, it := range d.Items {
		o.Items = append(o.Items, entity.OrderItem{
			ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity,
			Price: fromDecimal128(it.Price), Image: it.Image,
		})
	}
	return o
}

// OrderRepo pedidos sobre MongoDB; las líneas van embebidas en el documento.
type OrderRepo struct {
	db *mongo.Database
}

// Create inserta el pedido con un seq creciente que desempata fechas iguales.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	seq, err := nextSeq(ctx, r.db, colOrders)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	a := o.ShippingAddress
	doc := orderDoc{
		ID: o.ID, Seq: seq, User: o.UserID,
		Items:       make([]orderItemDoc, 0, len(o.Items)),
		TotalAmount: toDecimal128(o.TotalAmount),
		Status:      string(o.Status),
		ShippingAddress: addressDoc{
			Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country,
		},
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for _, it := range o.Items {
		doc.Items = append(doc.Items, orderItemDoc{
			ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity,
			Price: toDecimal128(it.Price), Image: it.Image,
		})
	}
	if _, err := r.db.Collection(colOrders).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// List devuelve pedidos del más reciente al más antiguo.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	q := bson.M{}
	if filter.UserID != "" {
		q["user"] = filter.UserID
	}
	if filter.Status != "" {
		q["status"] = string(filter.Status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "seq", Value: -1}})
	cur, err := r.db.Collection(colOrders).Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]*entity.Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, nil
}
