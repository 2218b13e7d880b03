// Package mongo implementa los puertos de persistencia sobre MongoDB.
// Las transacciones del ledger usan sesiones y requieren un replica set.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/storefront-api/pkg/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Nombres de colecciones.
const (
	colProducts     = "products"
	colTransactions = "transactions"
	colCategories   = "categories"
	colUsers        = "users"
	colOrders       = "orders"
	colCounters     = "counters"
)

// Store agrupa el cliente y la base; expone los repositorios.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect abre el cliente, verifica la conexión y crea los índices.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("conectar mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := &Store{client: client, db: client.Database(cfg.Database)}
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// Close desconecta el cliente.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes crea los índices únicos y de orden del ledger. Es idempotente.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		colTransactions: {
			{Keys: bson.D{{Key: "date", Value: -1}, {Key: "seq", Value: -1}}},
			{Keys: bson.D{{Key: "productId", Value: 1}}},
		},
		colProducts: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		colCategories: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colOrders: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for col, models := range specs {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("crear índices %s: %w", col, err)
		}
	}
	return nil
}

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{db: s.db} }

// Stock repositorio de stock fuera de transacción.
func (s *Store) Stock() *StockRepo { return &StockRepo{db: s.db} }

// Transactions ledger.
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{db: s.db} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{db: s.db} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{db: s.db} }

// Orders repositorio de pedidos.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{db: s.db} }

// TxRunner runner transaccional basado en sesiones.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{client: s.client, db: s.db} }

// withSession ata ctx a la sesión de la transacción cuando el repo se creó dentro de TxRunner.
func withSession(ctx context.Context, sess mongo.Session) context.Context {
	if sess == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, sess)
}

// nextSeq devuelve el siguiente valor del contador name (desempate por orden de inserción).
func nextSeq(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(colCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("counter %s: %w", name, err)
	}
	return doc.Seq, nil
}
