package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/analytics"
	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/internal/application/usecase"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/storefront-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct{}

func (fakePDF) RenderVariance(dto.VarianceReportDTO, time.Time) ([]byte, error) {
	return []byte("%PDF-1.7 fake"), nil
}

// buildTestApp arma la API completa sobre el store en memoria con un producto
// P1 (costo 100, precio 150, stock 20).
func buildTestApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID: "p1", Name: "Parlante", Category: "Audio",
		Price: decimal.NewFromInt(150), CostPrice: decimal.NewFromInt(100), Stock: 20,
		CreatedAt: time.Now(),
	}))

	categories := usecase.NewCategoryUseCase(s.Categories())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:         usecase.NewProductUseCase(s.Products(), categories),
		CategoryUC:        categories,
		RecordTransaction: inventory.NewRecordTransactionUseCase(s.TxRunner(), nil, nil),
		ListTransactions:  inventory.NewListTransactionsUseCase(s.Transactions(), time.UTC, nil),
		ReportUC:          analytics.NewReportUseCase(s.Products(), s.Transactions(), fakePDF{}, time.UTC, nil),
		AuthUC:            auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}),
		OrderUC:           usecase.NewOrderUseCase(s.Orders(), s.Products()),
		JWTSecret:         testJWTSecret,
		ServiceName:       "storefront-api",
		StoreDriver:       "memory",
	})
	return app, s
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestPostTransaction_SellCreated(t *testing.T) {
	app, s := buildTestApp(t)
	admin := tokenForRole(t, entity.RoleAdmin)

	resp := call(t, app, http.MethodPost, "/api/transactions", admin, map[string]any{
		"type": "SELL", "productId": "p1", "quantity": 5, "price": 150,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	tx := decode[dto.TransactionResponse](t, resp)
	assert.Equal(t, "SELL", tx.Type)
	assert.Equal(t, "Parlante", tx.ProductName)
	assert.True(t, tx.Total.Equal(decimal.NewFromInt(750)))

	p, err := s.Products().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 15, p.Stock)
}

func TestPostTransaction_ErrorTaxonomy(t *testing.T) {
	app, _ := buildTestApp(t)
	admin := tokenForRole(t, entity.RoleAdmin)

	cases := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"stock insuficiente", map[string]any{"type": "SELL", "productId": "p1", "quantity": 21, "price": 150}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"producto inexistente", map[string]any{"type": "SELL", "productId": "zz", "quantity": 1, "price": 150}, http.StatusNotFound, "NOT_FOUND"},
		{"cantidad cero", map[string]any{"type": "BUY", "productId": "p1", "quantity": 0, "price": 1}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"precio negativo", map[string]any{"kind": "BUY", "productId": "p1", "quantity": 1, "unitPrice": -1}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"tipo inválido", map[string]any{"type": "RETURN", "productId": "p1", "quantity": 1, "price": 1}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"cantidad no entera", map[string]any{"type": "BUY", "productId": "p1", "quantity": 1.5, "price": 1}, http.StatusBadRequest, "INVALID_BODY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(t, app, http.MethodPost, "/api/transactions", admin, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestTransactions_RequireAdmin(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := call(t, app, http.MethodGet, "/api/transactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/transactions", tokenForRole(t, entity.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetTransactions_FilterByProduct(t *testing.T) {
	app, _ := buildTestApp(t)
	admin := tokenForRole(t, entity.RoleAdmin)

	for i := 0; i < 3; i++ {
		resp := call(t, app, http.MethodPost, "/api/transactions", admin, map[string]any{
			"type": "BUY", "productId": "p1", "quantity": i + 1, "price": 90,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := call(t, app, http.MethodGet, "/api/transactions?productId=p1", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.TransactionResponse](t, resp)
	require.Len(t, list, 3)
	assert.Equal(t, 3, list[0].Quantity, "más reciente primero")

	resp = call(t, app, http.MethodGet, "/api/transactions?productId=otro", admin, nil)
	assert.Empty(t, decode[[]dto.TransactionResponse](t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestAnalytics_Report(t *testing.T) {
	app, _ := buildTestApp(t)
	admin := tokenForRole(t, entity.RoleAdmin)

	resp := call(t, app, http.MethodPost, "/api/transactions", admin, map[string]any{
		"type": "SELL", "productId": "p1", "quantity": 5, "price": 150,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/reports/analytics", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep := decode[dto.AnalyticsReportDTO](t, resp)

	assert.True(t, rep.Summary.TotalRevenue.Equal(decimal.NewFromInt(750)))
	assert.True(t, rep.Summary.TotalProfit.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "33.33", rep.Summary.ProfitMargin.StringFixed(2))
	assert.True(t, rep.Summary.InventoryValue.Equal(decimal.NewFromInt(1500)))
	assert.Len(t, rep.SalesTrend, 7)
	assert.Len(t, rep.Transactions, 1)

	resp = call(t, app, http.MethodGet, "/api/reports/analytics?startDate=2026-13-01", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalytics_RawJSONShape(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := call(t, app, http.MethodGet, "/api/reports/analytics", tokenForRole(t, entity.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw := decode[map[string]json.RawMessage](t, resp)
	for _, key := range []string{"summary", "lowStockProducts", "bestSellers", "categoryBreakdown", "salesTrend", "transactions"} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "[]", string(raw["transactions"]), "lista vacía, no null")
}

func TestVariance_JSONAndPDF(t *testing.T) {
	app, _ := buildTestApp(t)
	admin := tokenForRole(t, entity.RoleAdmin)

	resp := call(t, app, http.MethodPost, "/api/transactions", admin, map[string]any{
		"type": "SELL", "productId": "p1", "quantity": 2, "price": 120,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodGet, "/api/reports/variance", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep := decode[dto.VarianceReportDTO](t, resp)
	require.Len(t, rep.Transactions, 1)
	assert.True(t, rep.Summary.TotalProfit.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "16.67", rep.Transactions[0].Margin.StringFixed(2))

	resp = call(t, app, http.MethodGet, "/api/reports/variance.pdf", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo, auth y health
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_PublicReadAdminWrite(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := call(t, app, http.MethodGet, "/api/products/p1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, 20, p.Stock)

	resp = call(t, app, http.MethodGet, "/api/products/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	newProduct := map[string]any{"name": "Audífonos", "category": "Audio", "price": 80, "costPrice": 40, "stock": 3}
	resp = call(t, app, http.MethodPost, "/api/products", tokenForRole(t, entity.RoleUser), newProduct)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/products", tokenForRole(t, entity.RoleAdmin), newProduct)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)

	resp = call(t, app, http.MethodGet, "/api/products?category=Audio", "", nil)
	list := decode[dto.ProductListResponse](t, resp)
	require.Len(t, list.Items, 2)
	assert.Equal(t, created.ID, list.Items[0].ID)

	resp = call(t, app, http.MethodGet, "/api/categories", "", nil)
	cats := decode[[]dto.CategoryResponse](t, resp)
	require.Len(t, cats, 1)
	assert.Equal(t, "audio", cats[0].Slug)

	resp = call(t, app, http.MethodDelete, "/api/products/"+created.ID, tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAuth_RegisterLoginFlow(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "cliente@tienda.co", "password": "clave-segura", "firstName": "Ana",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = call(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "cliente@tienda.co", "password": "clave-segura",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "cliente@tienda.co", "password": "clave-segura",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)

	// Un usuario normal no accede al back-office.
	resp = call(t, app, http.MethodGet, "/api/reports/variance", "Bearer "+login.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "cliente@tienda.co", "password": "incorrecta",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// registerAndLogin crea un cliente y devuelve su id y el header Authorization.
func registerAndLogin(t *testing.T, app *fiber.App, email string) (string, string) {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": email, "password": "clave-segura",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	user := decode[dto.UserResponse](t, resp)
	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": email, "password": "clave-segura",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	return user.ID, "Bearer " + login.Token
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos y perfil de usuario
// ──────────────────────────────────────────────────────────────────────────────

func TestOrders_CreateAndListOwn(t *testing.T) {
	app, s := buildTestApp(t)
	anaID, ana := registerAndLogin(t, app, "ana@tienda.co")
	_, beto := registerAndLogin(t, app, "beto@tienda.co")
	address := map[string]any{"street": "Cra 7", "city": "Bogotá", "state": "DC", "zipCode": "110111", "country": "CO"}

	resp := call(t, app, http.MethodPost, "/api/orders", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/orders", ana, map[string]any{
		"items": []map[string]any{{"productId": "p1", "quantity": 2}}, "shippingAddress": address,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decode[dto.OrderResponse](t, resp)
	assert.Equal(t, anaID, order.UserID)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "Parlante", order.Items[0].Name)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(300)))

	resp = call(t, app, http.MethodPost, "/api/orders", ana, map[string]any{
		"items": []map[string]any{{"productId": "nada", "quantity": 1}}, "shippingAddress": address,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/orders", ana, map[string]any{"items": []map[string]any{}, "shippingAddress": address})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/orders", ana, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	mine := decode[[]dto.OrderResponse](t, resp)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)

	resp = call(t, app, http.MethodGet, "/api/orders", beto, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.OrderResponse](t, resp))

	resp = call(t, app, http.MethodGet, "/api/orders?userId="+anaID, beto, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/orders?userId="+anaID+"&status=pending", tokenForRole(t, entity.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.OrderResponse](t, resp), 1)

	p, err := s.Products().GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 20, p.Stock)
}

func TestUsers_GetAndUpdateSelf(t *testing.T) {
	app, _ := buildTestApp(t)
	anaID, ana := registerAndLogin(t, app, "ana@tienda.co")
	betoID, _ := registerAndLogin(t, app, "beto@tienda.co")

	resp := call(t, app, http.MethodGet, "/api/users/"+anaID, ana, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ana@tienda.co", decode[dto.UserResponse](t, resp).Email)

	resp = call(t, app, http.MethodGet, "/api/users/"+betoID, ana, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/users/"+anaID, ana, map[string]any{
		"firstName": "Ana", "password": "nueva-clave",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ana", decode[dto.UserResponse](t, resp).FirstName)

	// El password enviado en el PUT se ignora.
	resp = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": "ana@tienda.co", "password": "clave-segura",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/users/"+anaID, ana, map[string]any{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPut, "/api/users/"+anaID, ana, map[string]any{"email": "beto@tienda.co"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/users/"+betoID, tokenForRole(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := call(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["store"])
}
