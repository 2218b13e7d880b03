package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea pedida. Price es opcional: sin él se usa el precio vigente del catálogo.
type OrderItemRequest struct {
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

// ShippingAddressDTO dirección de envío.
type ShippingAddressDTO struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// CreateOrderRequest entrada para crear un pedido. El total se calcula en el servidor.
type CreateOrderRequest struct {
	UserID          string             `json:"userId"` // solo admin puede crear a nombre de otro usuario
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddressDTO `json:"shippingAddress"`
}

// ListOrdersRequest filtros de GET /api/orders.
type ListOrdersRequest struct {
	UserID string `query:"userId"`
	Status string `query:"status"`
}

// OrderItemResponse línea de un pedido.
type OrderItemResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	Status          string              `json:"status"`
	ShippingAddress ShippingAddressDTO  `json:"shippingAddress"`
	PaymentStatus   string              `json:"paymentStatus"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}
