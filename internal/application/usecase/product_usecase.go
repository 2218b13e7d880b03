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

// ProductUseCase casos de uso CRUD para productos. CostPrice y Stock se manejan vía transacciones.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories *CategoryUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories *CategoryUseCase) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories}
}

// Create crea un producto con su stock y costo iniciales; crea la categoría si es nueva.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if err := validatePrices(in.Price, in.DiscountPrice); err != nil {
		return nil, err
	}
	if in.CostPrice.IsNegative() {
		return nil, domain.NewValidationError("costPrice", "no puede ser negativo")
	}
	if in.Stock < 0 {
		return nil, domain.NewValidationError("stock", "no puede ser negativo")
	}
	if in.ID != "" {
		existing, err := uc.repo.GetByID(ctx, in.ID)
		if err != nil {
			return nil, domain.StoreError("usecase.Product.Create", err)
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if _, err := uc.categories.Ensure(ctx, in.Category, ""); err != nil {
		return nil, err
	}

	id := in.ID
	if id == "" {
		id = uuid.New().String()
	}
	image := in.Image
	if image == "" && len(in.Images) > 0 {
		image = in.Images[0]
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:            id,
		Name:          in.Name,
		Description:   in.Description,
		Category:      in.Category,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		CostPrice:     in.CostPrice,
		Stock:         in.Stock,
		Image:         image,
		Images:        in.Images,
		Rating:        decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, domain.StoreError("usecase.Product.Create", err)
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; NotFoundError si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StoreError("usecase.Product.GetByID", err)
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	return toProductResponse(product), nil
}

// Update actualiza datos de catálogo. No permite modificar CostPrice ni Stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StoreError("usecase.Product.Update", err)
	}
	if product == nil {
		return nil, &domain.NotFoundError{Resource: "producto", ID: id}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede quedar vacío")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.DiscountPrice != nil {
		product.DiscountPrice = in.DiscountPrice
	}
	if err := validatePrices(product.Price, product.DiscountPrice); err != nil {
		return nil, err
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
		if _, err := uc.categories.Ensure(ctx, product.Category, ""); err != nil {
			return nil, err
		}
	}
	if in.Image != nil {
		product.Image = *in.Image
	}
	if in.Images != nil {
		product.Images = in.Images
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, domain.StoreError("usecase.Product.Update", err)
	}
	return toProductResponse(product), nil
}

// List lista productos del más reciente al más antiguo, opcionalmente por categoría.
func (uc *ProductUseCase) List(ctx context.Context, category string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Category: strings.TrimSpace(category),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, domain.StoreError("usecase.Product.List", err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un producto por ID. Su historial en el ledger se conserva.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return domain.StoreError("usecase.Product.Delete", uc.repo.Delete(ctx, id))
}

func validatePrices(price decimal.Decimal, discount *decimal.Decimal) error {
	if price.IsNegative() {
		return domain.NewValidationError("price", "no puede ser negativo")
	}
	if discount != nil {
		if discount.IsNegative() {
			return domain.NewValidationError("discountPrice", "no puede ser negativo")
		}
		if discount.GreaterThan(price) {
			return domain.NewValidationError("discountPrice", "no puede superar el precio")
		}
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		CostPrice:     p.CostPrice,
		Stock:         p.Stock,
		Image:         p.Image,
		Images:        images,
		Rating:        p.Rating,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
