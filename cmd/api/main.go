package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/storefront-api/docs"
	appanalytics "github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	infrakafka "github.com/jhoicas/storefront-api/internal/infrastructure/kafka"
	infrapdf "github.com/jhoicas/storefront-api/internal/infrastructure/pdf"
	"github.com/jhoicas/storefront-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/storefront-api/internal/interfaces/http"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// @title                       Storefront API
// @version                     1.0
// @description                 Back-office de la tienda: ledger de compras/ventas y reportes de utilidad.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
// @description                 Token JWT con el prefijo Bearer
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	loc, err := cfg.Reports.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria de reportes")
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("abrir almacenamiento")
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("cerrar almacenamiento")
		}
	}()

	// Eventos del ledger: Kafka si hay brokers, si no se descartan.
	var publisher inventory.TransactionPublisher = inventory.NopPublisher{}
	if cfg.Kafka.Enabled() {
		kp := infrakafka.NewPublisher(cfg.Kafka)
		defer func() { _ = kp.Close() }()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicando eventos en Kafka")
	}

	categoryUC := usecase.NewCategoryUseCase(backend.Categories)
	productUC := usecase.NewProductUseCase(backend.Products, categoryUC)
	orderUC := usecase.NewOrderUseCase(backend.Orders, backend.Products)
	recordUC := inventory.NewRecordTransactionUseCase(backend.TxRunner, publisher, log.Named("inventory"))
	listUC := inventory.NewListTransactionsUseCase(backend.Transactions, loc, log.Named("inventory"))
	reportUC := appanalytics.NewReportUseCase(
		backend.Products, backend.Transactions,
		infrapdf.NewVarianceRenderer(cfg.App.Name, loc),
		loc, log.Named("reports"),
	)
	authUC := auth.NewAuthUseCase(backend.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: strings.Join([]string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions}, ","),
	}))
	app.Use(logger.FiberMiddleware(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if swaggerFile := swaggerFilePath(cfg.HTTP.SwaggerFile, log); swaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:         productUC,
		CategoryUC:        categoryUC,
		RecordTransaction: recordUC,
		ListTransactions:  listUC,
		ReportUC:          reportUC,
		AuthUC:            authUC,
		OrderUC:           orderUC,
		JWTSecret:         cfg.JWT.Secret,
		ServiceName:       cfg.App.Name,
		StoreDriver:       backend.Driver,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// swaggerFilePath devuelve el swagger.json a servir. Si el archivo configurado no
// existe, vuelca la especificación compilada en el binario a un archivo temporal.
func swaggerFilePath(path string, log *logger.Logger) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	f, err := os.CreateTemp("", "swagger-*.json")
	if err != nil {
		log.Warn().Err(err).Msg("swagger deshabilitado")
		return ""
	}
	defer f.Close()
	if _, err := f.WriteString(docs.SwaggerInfo.ReadDoc()); err != nil {
		log.Warn().Err(err).Msg("swagger deshabilitado")
		return ""
	}
	return f.Name()
}
