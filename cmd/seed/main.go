// seed carga un catálogo inicial (categorías y productos) en el store configurado
// y, si SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD están definidos, crea un administrador.
//
// Uso: go run ./cmd/seed [ruta/catalog.json]
// Por defecto busca catalog.json en el directorio actual. Es idempotente: los
// productos cuyo id ya existe se omiten.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/infrastructure/storage"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// catalogFile formato del archivo de semilla.
type catalogFile struct {
	Categories []struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	} `json:"categories"`
	Products []dto.CreateProductRequest `json:"products"`
}

func main() {
	path := "catalog.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	if err := run(context.Background(), cfg, path, log); err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("seed fallido")
	}
}

func run(ctx context.Context, cfg *config.Config, path string, log *logger.Logger) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("leer %s: %w", path, err)
	}
	var catalog catalogFile
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return fmt.Errorf("parsear %s: %w", path, err)
	}

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close(ctx) }()

	categoryUC := usecase.NewCategoryUseCase(backend.Categories)
	productUC := usecase.NewProductUseCase(backend.Products, categoryUC)

	for _, c := range catalog.Categories {
		if _, err := categoryUC.Ensure(ctx, c.Name, c.Image); err != nil {
			return fmt.Errorf("categoría %q: %w", c.Name, err)
		}
	}

	created, skipped := 0, 0
	for _, p := range catalog.Products {
		_, err := productUC.Create(ctx, p)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			return fmt.Errorf("producto %q: %w", p.Name, err)
		}
	}
	log.Info().
		Int("categories", len(catalog.Categories)).
		Int("created", created).
		Int("skipped", skipped).
		Str("store", backend.Driver).
		Msg("catálogo cargado")

	email, password := os.Getenv("SEED_ADMIN_EMAIL"), os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	authUC := auth.NewAuthUseCase(backend.Users, auth.JWTConfig{
		Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
	})
	_, err = authUC.CreateAdmin(ctx, dto.RegisterRequest{Email: email, Password: password, FirstName: "Admin"})
	switch {
	case err == nil:
		log.Info().Str("email", email).Msg("administrador creado")
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		log.Info().Str("email", email).Msg("administrador ya existe")
	default:
		return fmt.Errorf("crear administrador: %w", err)
	}
	return nil
}
