package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/infrastructure/sqlite"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedProduct(t *testing.T, db *sqlx.DB, id string, stock int) {
	t.Helper()
	discount := decimal.RequireFromString("9.50")
	now := time.Now().UTC()
	require.NoError(t, sqlite.NewProductRepository(db).Create(context.Background(), &entity.Product{
		ID: id, Name: "P " + id, Category: "Hogar", Price: decimal.NewFromInt(10),
		DiscountPrice: &discount, CostPrice: decimal.NewFromInt(5), Stock: stock,
		Images: []string{"a.png"}, CreatedAt: now, UpdatedAt: now,
	}))
}

func TestProductRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	seedProduct(t, db, "p1", 3)
	repo := sqlite.NewProductRepository(db)

	p, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(10)))
	require.NotNil(t, p.DiscountPrice)
	assert.Equal(t, "9.5", p.DiscountPrice.String())
	assert.Equal(t, []string{"a.png"}, p.Images)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Create(ctx, &entity.Product{ID: "p1", Name: "dup"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = repo.Delete(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockRepo_AdjustStock(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	seedProduct(t, db, "p1", 3)
	stock := sqlite.NewStockRepository(db)

	cost := decimal.NewFromInt(4)
	p, err := stock.AdjustStock(ctx, "p1", 2, &cost)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
	assert.True(t, p.CostPrice.Equal(cost))

	_, err = stock.AdjustStock(ctx, "p1", -6, nil)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 6, stockErr.Requested)

	missing, err := stock.AdjustStock(ctx, "nope", 1, nil)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	seedProduct(t, db, "p1", 5)
	boom := errors.New("falla")

	err := sqlite.NewTxRunner(db).Run(ctx, func(stock repository.StockRepository, ledger repository.TransactionRepository) error {
		if _, err := stock.AdjustStock(ctx, "p1", -2, nil); err != nil {
			return err
		}
		if err := ledger.Append(ctx, &entity.Transaction{
			ID: "t1", Kind: entity.TransactionSell, ProductID: "p1", ProductName: "P p1",
			Quantity: 2, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(20),
			Date: time.Now(), CreatedAt: time.Now(),
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := sqlite.NewProductRepository(db).GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock, "el rollback restaura el stock")

	txs, err := sqlite.NewTransactionRepository(db).List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs, "el rollback descarta el asiento")
}

func TestTransactionRepo_ListNewestFirstWithFilters(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	ledger := sqlite.NewTransactionRepository(db)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	add := func(id, product string, kind entity.TransactionKind, at time.Time) {
		require.NoError(t, ledger.Append(ctx, &entity.Transaction{
			ID: id, Kind: kind, ProductID: product, ProductName: product, Quantity: 1,
			UnitPrice: decimal.NewFromInt(1), Total: decimal.NewFromInt(1), Date: at, CreatedAt: at,
		}))
	}
	add("a", "p1", entity.TransactionSell, base)
	add("b", "p1", entity.TransactionBuy, base.Add(time.Hour))
	add("c", "p2", entity.TransactionSell, base.Add(time.Hour))
	add("d", "p1", entity.TransactionSell, base.Add(48*time.Hour))

	all, err := ledger.List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids(all), "misma fecha: el último insertado primero")

	from := base.Add(30 * time.Minute)
	to := base.Add(2 * time.Hour)
	sells, err := ledger.List(ctx, repository.TransactionFilter{Kind: entity.TransactionSell, From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(sells))

	byProduct, err := ledger.List(ctx, repository.TransactionFilter{ProductID: "p1", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b"}, ids(byProduct))
}

func TestCategoryAndUserRepos(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	cats := sqlite.NewCategoryRepository(db)
	now := time.Now().UTC()

	require.NoError(t, cats.Create(ctx, &entity.Category{ID: "c1", Name: "Cuidado Facial", Slug: "cuidado-facial", CreatedAt: now, UpdatedAt: now}))
	err := cats.Create(ctx, &entity.Category{ID: "c2", Name: "cuidado facial", Slug: "cuidado-facial", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	c, err := cats.GetByName(ctx, "Cuidado  Facial")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "c1", c.ID)

	users := sqlite.NewUserRepository(db)
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u1", Email: "Ana@Tienda.co", PasswordHash: "x", Role: entity.RoleAdmin, CreatedAt: now, UpdatedAt: now}))
	err = users.Create(ctx, &entity.User{ID: "u2", Email: "ana@tienda.co", PasswordHash: "y", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	u, err := users.FindByEmail(ctx, "ANA@tienda.co")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleAdmin, u.Role)
}

func TestTransactionRepo_KeepsFullPrecision(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	ledger := sqlite.NewTransactionRepository(db)
	now := time.Now().UTC()

	price := decimal.RequireFromString("1.005")
	require.NoError(t, ledger.Append(ctx, &entity.Transaction{
		ID: "t1", Kind: entity.TransactionSell, ProductID: "p1", ProductName: "Jabón", Quantity: 3,
		UnitPrice: price, Total: price.Mul(decimal.NewFromInt(3)), Date: now, CreatedAt: now,
	}))
	list, err := ledger.List(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "1.005", list[0].UnitPrice.String())
	assert.Equal(t, "3.015", list[0].Total.String())
}

func TestUserRepo_FindByIDAndUpdate(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	users := sqlite.NewUserRepository(db)
	now := time.Now().UTC()
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u1", Email: "ana@tienda.co", PasswordHash: "hash-1", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u2", Email: "beto@tienda.co", PasswordHash: "hash-2", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now}))

	u, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, u)
	u.Email, u.FirstName, u.PasswordHash = "Ana.Maria@Tienda.co", "Ana María", "ignorado"
	require.NoError(t, users.Update(ctx, u))

	got, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana.maria@tienda.co", got.Email)
	assert.Equal(t, "Ana María", got.FirstName)
	assert.Equal(t, "hash-1", got.PasswordHash, "el hash no cambia por Update")

	got.Email = "beto@tienda.co"
	assert.ErrorIs(t, users.Update(ctx, got), domain.ErrEmailAlreadyExists)

	var nf *domain.NotFoundError
	assert.ErrorAs(t, users.Update(ctx, &entity.User{ID: "nadie", Email: "x@tienda.co"}), &nf)

	missing, err := users.FindByID(ctx, "nadie")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepo_CreateAndList(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	orders := sqlite.NewOrderRepository(db)
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	add := func(id, user string, status entity.OrderStatus, at time.Time) {
		t.Helper()
		require.NoError(t, orders.Create(ctx, &entity.Order{
			ID: id, UserID: user, Status: status, PaymentStatus: entity.PaymentPending,
			Items: []entity.OrderItem{{ProductID: "p1", Name: "Jabón", Quantity: 2, Price: decimal.RequireFromString("4.25"), Image: "j.png"}},
			TotalAmount:     decimal.RequireFromString("8.50"),
			ShippingAddress: entity.ShippingAddress{Street: "Cra 1", City: "Bogotá", State: "DC", ZipCode: "110111", Country: "CO"},
			CreatedAt:       at, UpdatedAt: at,
		}))
	}
	add("o1", "u1", entity.OrderPending, base)
	add("o2", "u2", entity.OrderShipped, base)
	add("o3", "u1", entity.OrderShipped, base.Add(time.Hour))

	err := orders.Create(ctx, &entity.Order{ID: "o1", UserID: "u1", Status: entity.OrderPending, PaymentStatus: entity.PaymentPending, CreatedAt: base, UpdatedAt: base})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	all, err := orders.List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"o3", "o2", "o1"}, orderIDs(all))

	mine, err := orders.List(ctx, repository.OrderFilter{UserID: "u1", Status: entity.OrderShipped})
	require.NoError(t, err)
	require.Equal(t, []string{"o3"}, orderIDs(mine))

	o := mine[0]
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Jabón", o.Items[0].Name)
	assert.True(t, o.Items[0].Price.Equal(decimal.RequireFromString("4.25")))
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("8.5")))
	assert.Equal(t, "Bogotá", o.ShippingAddress.City)
	assert.Equal(t, entity.PaymentPending, o.PaymentStatus)
	assert.True(t, o.CreatedAt.Equal(base.Add(time.Hour)))
}

func orderIDs(list []*entity.Order) []string {
	out := make([]string, 0, len(list))
	for _, o := range list {
		out = append(out, o.ID)
	}
	return out
}

func ids(txs []*entity.Transaction) []string {
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		out = append(out, tx.ID)
	}
	return out
}
