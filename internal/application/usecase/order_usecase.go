package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// OrderUseCase pedidos de la tienda. Crear un pedido no descuenta stock: el stock solo
// cambia con transacciones del ledger registradas desde el back-office.
type OrderUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	now      func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orders repository.OrderRepository, products repository.ProductRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, products: products, now: time.Now}
}

// Create arma el pedido con nombre, imagen y precio copiados del catálogo y calcula el total.
// Un usuario solo crea pedidos propios; un admin puede indicar userId.
func (uc *OrderUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	userID := actor.UserID
	if in.UserID != "" && in.UserID != actor.UserID {
		if !actor.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		userID = in.UserID
	}
	if userID == "" {
		return nil, domain.NewValidationError("userId", "es requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "el pedido no tiene líneas")
	}
	addr, err := shippingAddress(in.ShippingAddress)
	if err != nil {
		return nil, err
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	total := decimal.Zero
	for _, line := range in.Items {
		item, err := uc.orderItem(ctx, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		total = total.Add(item.Subtotal())
	}

	now := uc.now().UTC()
	order := &entity.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		Status:          entity.OrderPending,
		ShippingAddress: addr,
		PaymentStatus:   entity.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, domain.StoreError("usecase.Order.Create", err)
	}
	return toOrderResponse(order), nil
}

// List devuelve pedidos del más reciente al más antiguo. Un usuario sin rol admin
// solo ve los suyos.
func (uc *OrderUseCase) List(ctx context.Context, actor dto.Actor, in dto.ListOrdersRequest) ([]dto.OrderResponse, error) {
	filter := repository.OrderFilter{UserID: strings.TrimSpace(in.UserID)}
	if !actor.IsAdmin() {
		if filter.UserID != "" && filter.UserID != actor.UserID {
			return nil, domain.ErrForbidden
		}
		filter.UserID = actor.UserID
	}
	if in.Status != "" {
		status := entity.OrderStatus(strings.ToLower(in.Status))
		if !status.Valid() {
			return nil, domain.NewValidationError("status", "estado de pedido desconocido")
		}
		filter.Status = status
	}
	list, err := uc.orders.List(ctx, filter)
	if err != nil {
		return nil, domain.StoreError("usecase.Order.List", err)
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return out, nil
}

func (uc *OrderUseCase) orderItem(ctx context.Context, line dto.OrderItemRequest) (entity.OrderItem, error) {
	productID := strings.TrimSpace(line.ProductID)
	if productID == "" {
		return entity.OrderItem{}, domain.NewValidationError("items.productId", "es requerido")
	}
	if line.Quantity <= 0 {
		return entity.OrderItem{}, domain.NewValidationError("items.quantity", "debe ser mayor que cero")
	}
	if line.Price != nil && line.Price.IsNegative() {
		return entity.OrderItem{}, domain.NewValidationError("items.price", "no puede ser negativo")
	}
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return entity.OrderItem{}, domain.StoreError("usecase.Order.Create", err)
	}
	if p == nil {
		return entity.OrderItem{}, &domain.NotFoundError{Resource: "producto", ID: productID}
	}
	price := p.Price
	if p.DiscountPrice != nil {
		price = *p.DiscountPrice
	}
	if line.Price != nil {
		price = *line.Price
	}
	return entity.OrderItem{
		ProductID: p.ID,
		Name:      p.Name,
		Quantity:  line.Quantity,
		Price:     price,
		Image:     p.Image,
	}, nil
}

func shippingAddress(in dto.ShippingAddressDTO) (entity.ShippingAddress, error) {
	a := entity.ShippingAddress{
		Street:  strings.TrimSpace(in.Street),
		City:    strings.TrimSpace(in.City),
		State:   strings.TrimSpace(in.State),
		ZipCode: strings.TrimSpace(in.ZipCode),
		Country: strings.TrimSpace(in.Country),
	}
	required := []struct{ field, value string }{
		{"shippingAddress.street", a.Street},
		{"shippingAddress.city", a.City},
		{"shippingAddress.state", a.State},
		{"shippingAddress.zipCode", a.ZipCode},
		{"shippingAddress.country", a.Country},
	}
	for _, r := range required {
		if r.value == "" {
			return entity.ShippingAddress{}, domain.NewValidationError(r.field, "es requerido")
		}
	}
	return a, nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID: it.ProductID, Name: it.Name, Quantity: it.Quantity, Price: it.Price, Image: it.Image,
		})
	}
	a := o.ShippingAddress
	return &dto.OrderResponse{
		ID:          o.ID,
		UserID:      o.UserID,
		Items:       items,
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		ShippingAddress: dto.ShippingAddressDTO{
			Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country,
		},
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
