package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC         *usecase.ProductUseCase
	CategoryUC        *usecase.CategoryUseCase
	RecordTransaction *inventory.RecordTransactionUseCase
	ListTransactions  *inventory.ListTransactionsUseCase
	ReportUC          *analytics.ReportUseCase
	AuthUC            *auth.AuthUseCase
	OrderUC           *usecase.OrderUseCase
	JWTSecret         string
	ServiceName       string
	StoreDriver       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName, "store": deps.StoreDriver})
	})

	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Catálogo: lectura pública, escritura admin
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", authMW, adminOnly, productHandler.Create)
	products.Put("/:id", authMW, adminOnly, productHandler.Update)
	products.Delete("/:id", authMW, adminOnly, productHandler.Delete)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	api.Get("/categories", categoryHandler.List)

	// Tienda (cualquier usuario autenticado; los casos de uso limitan a lo propio)
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := api.Group("/orders", authMW)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)

	api.Get("/users/:id", authMW, authHandler.GetUser)
	api.Put("/users/:id", authMW, authHandler.UpdateUser)

	// Back-office (admin)
	admin := api.Group("/", authMW, adminOnly)

	txHandler := NewTransactionHandler(deps.RecordTransaction, deps.ListTransactions)
	admin.Post("/transactions", txHandler.Record)
	admin.Get("/transactions", txHandler.List)

	reportHandler := NewReportHandler(deps.ReportUC)
	admin.Get("/reports/analytics", reportHandler.Analytics)
	admin.Get("/reports/variance", reportHandler.Variance)
	admin.Get("/reports/variance.pdf", reportHandler.VariancePDF)

	admin.Get("/users", authHandler.ListUsers)
}
