package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Stock y CostPrice son los
// valores iniciales; después solo cambian vía transacciones.
type CreateProductRequest struct {
	ID            string           `json:"id"` // opcional; se genera si viene vacío
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice"`
	CostPrice     decimal.Decimal  `json:"costPrice"`
	Stock         int              `json:"stock"`
	Image         string           `json:"image"`
	Images        []string         `json:"images"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock ni CostPrice).
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Category      *string          `json:"category"`
	Price         *decimal.Decimal `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice"`
	Image         *string          `json:"image"`
	Images        []string         `json:"images"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	CostPrice     decimal.Decimal  `json:"costPrice"`
	Stock         int              `json:"stock"`
	Image         string           `json:"image"`
	Images        []string         `json:"images"`
	Rating        decimal.Decimal  `json:"rating"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
