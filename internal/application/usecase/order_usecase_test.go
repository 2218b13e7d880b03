package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	cliente = dto.Actor{UserID: "u1", Role: entity.RoleUser}
	admin   = dto.Actor{UserID: "a1", Role: entity.RoleAdmin}
	destino = dto.ShippingAddressDTO{Street: "Cra 7 # 10-20", City: "Bogotá", State: "DC", ZipCode: "110111", Country: "CO"}
)

func newOrderUseCase(t *testing.T) (*usecase.OrderUseCase, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	promo := decimal.NewFromInt(120)
	require.NoError(t, s.Products().Create(ctx, &entity.Product{
		ID: "p1", Name: "Parlante", Price: decimal.NewFromInt(150), DiscountPrice: &promo,
		CostPrice: decimal.NewFromInt(100), Stock: 20, Image: "parlante.png",
	}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{
		ID: "p2", Name: "Cable", Price: decimal.RequireFromString("9.99"), CostPrice: decimal.NewFromInt(4), Stock: 5,
	}))
	return usecase.NewOrderUseCase(s.Orders(), s.Products()), s
}

func TestOrderUseCase_CreateSnapshotsCatalogAndComputesTotal(t *testing.T) {
	ctx := context.Background()
	uc, s := newOrderUseCase(t)

	o, err := uc.Create(ctx, cliente, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 3},
		},
		ShippingAddress: destino,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, "pending", o.Status)
	assert.Equal(t, "pending", o.PaymentStatus)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Parlante", o.Items[0].Name)
	assert.Equal(t, "parlante.png", o.Items[0].Image)
	assert.True(t, o.Items[0].Price.Equal(decimal.NewFromInt(120)), "con descuento vigente se cobra el descuento")
	assert.True(t, o.Items[1].Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, "269.97", o.TotalAmount.String())

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 20, p.Stock, "crear un pedido no mueve stock")
}

func TestOrderUseCase_CreateWithExplicitPrice(t *testing.T) {
	uc, _ := newOrderUseCase(t)
	price := decimal.RequireFromString("99.5")

	o, err := uc.Create(context.Background(), cliente, dto.CreateOrderRequest{
		Items:           []dto.OrderItemRequest{{ProductID: "p1", Quantity: 2, Price: &price}},
		ShippingAddress: destino,
	})
	require.NoError(t, err)
	assert.Equal(t, "199", o.TotalAmount.String())
}

func TestOrderUseCase_CreateValidation(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUseCase(t)
	negative := decimal.NewFromInt(-1)
	noCity := destino
	noCity.City = " "

	cases := []dto.CreateOrderRequest{
		{ShippingAddress: destino},
		{Items: []dto.OrderItemRequest{{ProductID: "p1", Quantity: 0}}, ShippingAddress: destino},
		{Items: []dto.OrderItemRequest{{ProductID: " ", Quantity: 1}}, ShippingAddress: destino},
		{Items: []dto.OrderItemRequest{{ProductID: "p1", Quantity: 1, Price: &negative}}, ShippingAddress: destino},
		{Items: []dto.OrderItemRequest{{ProductID: "p1", Quantity: 1}}, ShippingAddress: noCity},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, cliente, in)
		assert.ErrorIs(t, err, domain.ErrValidation, "entrada %+v", in)
	}

	_, err := uc.Create(ctx, dto.Actor{}, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "p1", Quantity: 1}}, ShippingAddress: destino,
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "sin usuario no hay pedido")

	_, err = uc.Create(ctx, cliente, dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "no-existe", Quantity: 1}}, ShippingAddress: destino,
	})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "no-existe", nf.ID)
}

func TestOrderUseCase_CreateForAnotherUser(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUseCase(t)
	in := dto.CreateOrderRequest{
		UserID: "u2", Items: []dto.OrderItemRequest{{ProductID: "p2", Quantity: 1}}, ShippingAddress: destino,
	}

	_, err := uc.Create(ctx, cliente, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	o, err := uc.Create(ctx, admin, in)
	require.NoError(t, err)
	assert.Equal(t, "u2", o.UserID)
}

func TestOrderUseCase_ListScopesAndFilters(t *testing.T) {
	ctx := context.Background()
	uc, _ := newOrderUseCase(t)
	line := []dto.OrderItemRequest{{ProductID: "p2", Quantity: 1}}

	first, err := uc.Create(ctx, cliente, dto.CreateOrderRequest{Items: line, ShippingAddress: destino})
	require.NoError(t, err)
	second, err := uc.Create(ctx, cliente, dto.CreateOrderRequest{Items: line, ShippingAddress: destino})
	require.NoError(t, err)
	other, err := uc.Create(ctx, admin, dto.CreateOrderRequest{UserID: "u2", Items: line, ShippingAddress: destino})
	require.NoError(t, err)

	mine, err := uc.List(ctx, cliente, dto.ListOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, mine, 2, "sin filtro un cliente ve solo sus pedidos")
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	_, err = uc.List(ctx, cliente, dto.ListOrdersRequest{UserID: "u2"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	all, err := uc.List(ctx, admin, dto.ListOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID)

	byUser, err := uc.List(ctx, admin, dto.ListOrdersRequest{UserID: "u2", Status: "PENDING"})
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, other.ID, byUser[0].ID)

	shipped, err := uc.List(ctx, admin, dto.ListOrdersRequest{Status: "shipped"})
	require.NoError(t, err)
	assert.Empty(t, shipped)

	_, err = uc.List(ctx, admin, dto.ListOrdersRequest{Status: "perdido"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
