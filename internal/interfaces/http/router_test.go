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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Inventario-hotel/internal/application/analytics"
	"github.com/jhoicas/Inventario-hotel/internal/application/auth"
	"github.com/jhoicas/Inventario-hotel/internal/application/dto"
	"github.com/jhoicas/Inventario-hotel/internal/application/entry"
	"github.com/jhoicas/Inventario-hotel/internal/application/inventory"
	"github.com/jhoicas/Inventario-hotel/internal/application/usecase"
	"github.com/jhoicas/Inventario-hotel/internal/domain/ledger"
	"github.com/jhoicas/Inventario-hotel/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-hotel/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/Inventario-hotel/internal/interfaces/http"
	"github.com/jhoicas/Inventario-hotel/pkg/logger"
)

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

// newAPI arma la aplicación completa sobre almacenes en memoria, con un admin
// "admin"/"secreto" y un usuario "recepcion"/"secreto".
func newAPI(t *testing.T) *apiClient {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()
	ids := ledger.UUIDSource{}
	prom := metrics.New(prometheus.NewRegistry())

	inv := inventory.NewService(memory.NewInventoryStore(), ids, prom, log)
	require.NoError(t, inv.Reload(ctx))
	catalogUC := usecase.NewCatalogUseCase(memory.NewCatalogStore(), ids)
	users := memory.NewUserRepository()
	userUC := usecase.NewUserUseCase(users, ids, log)
	created, err := userUC.EnsureAdmin(ctx, "admin", "secreto")
	require.NoError(t, err)
	require.True(t, created)
	_, err = userUC.Create(ctx, dto.CreateUserRequest{Username: "recepcion", Password: "secreto", Role: "user"})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestLogger(log, prom))
	apphttp.Router(app, apphttp.RouterDeps{
		Inventory:   inv,
		Entries:     entry.NewService(memory.NewSessionStore(time.Hour), inv, catalogUC, ids, log),
		CatalogUC:   catalogUC,
		UserUC:      userUC,
		AuthUC:      auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 5, Issuer: testIssuer}),
		DashboardUC: appanalytics.NewDashboardUseCase(inv, catalogUC),
		Metrics:     prom.Handler(),
		ServiceName: "inventario-hotel",
		JWTSecret:   testJWTSecret,
	})
	return &apiClient{t: t, app: app}
}

func (a *apiClient) login(username string) *apiClient {
	a.t.Helper()
	var out dto.LoginResponse
	resp := a.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: username, Password: "secreto"}, &out)
	require.Equal(a.t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(a.t, out.Token)
	return &apiClient{t: a.t, app: a.app, token: out.Token}
}

func (a *apiClient) do(method, path string, body, out any) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestAPI_AltaLoteYDeshacer(t *testing.T) {
	api := newAPI(t).login("recepcion")

	var created dto.CreateItemResponse
	resp := api.do(http.MethodPost, "/api/items", map[string]any{
		"name": "Toallas", "category": "Ropa de cama", "quantity": 10, "minStockLevel": 4, "price": "3.5",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, created.Transaction)
	assert.Equal(t, "recepcion", created.Transaction.User)
	itemID := created.Item.ID

	var errBody dto.ErrorResponse
	resp = api.do(http.MethodPost, "/api/transactions/batch", map[string]any{
		"type": "OUTBOUND", "entries": []map[string]any{{"itemId": itemID, "quantity": 4}, {"itemId": itemID, "quantity": 7}},
	}, &errBody)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)
	assert.EqualValues(t, 2, errBody.Details["row"])

	var batch dto.BatchTransactionResponse
	resp = api.do(http.MethodPost, "/api/transactions/batch", map[string]any{
		"type": "OUTBOUND", "entries": []map[string]any{{"itemId": itemID, "quantity": "4"}, {"itemId": itemID, "quantity": 3}},
	}, &batch)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, batch.Transactions, 2)
	require.Len(t, batch.Items, 1)
	assert.Equal(t, "3", batch.Items[0].Quantity.String())
	assert.True(t, batch.Items[0].LowStock)

	var undo dto.UndoResponse
	resp = api.do(http.MethodPost, "/api/transactions/undo", dto.UndoRequest{
		TransactionIDs: []string{batch.Transactions[0].ID, batch.Transactions[1].ID},
	}, &undo)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, undo.Items, 1)
	assert.Equal(t, "10", undo.Items[0].Quantity.String())
	assert.Len(t, undo.DeletedIDs, 2)
	assert.False(t, undo.Degraded)

	var page dto.TransactionPage
	resp = api.do(http.MethodGet, "/api/transactions?item_id="+itemID, nil, &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, page.Page.Total)
	assert.Equal(t, "INBOUND", string(page.Data[0].Type))
}

func TestAPI_ErroresDeValidacion(t *testing.T) {
	api := newAPI(t).login("recepcion")

	var errBody dto.ErrorResponse
	resp := api.do(http.MethodPost, "/api/transactions/batch", map[string]any{
		"type": "INBOUND", "entries": []map[string]any{{"itemId": "nope", "quantity": 1}},
	}, &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(http.MethodPost, "/api/transactions/nope/undo", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/items/nope", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errBody.Code)

	resp = api.do(http.MethodGet, "/api/transactions?type=SIDEWAYS", nil, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_FlujoDeEntradaConAltaRapida(t *testing.T) {
	api := newAPI(t).login("recepcion")

	var sess dto.EntryResponse
	resp := api.do(http.MethodPost, "/api/entries", dto.StartEntryRequest{Type: "INBOUND"}, &sess)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	base := "/api/entries/" + sess.ID

	resp = api.do(http.MethodPut, base+"/rows", map[string]any{"rows": []map[string]any{{"quantity": 12}}}, &sess)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var found dto.SearchResponse
	resp = api.do(http.MethodPost, base+"/rows/1/search", dto.SearchRequest{Text: "Champú"}, &found)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, found.Matches)
	assert.Equal(t, "pending_create", found.Session.Phase)

	var added dto.QuickAddResponse
	resp = api.do(http.MethodPost, base+"/quick-add", map[string]any{"category": "Amenities", "createCategory": true}, &added)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, added.Item.Quantity.IsZero())

	var submitted dto.BatchTransactionResponse
	resp = api.do(http.MethodPost, base+"/submit", nil, &submitted)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, submitted.Items, 1)
	assert.Equal(t, "12", submitted.Items[0].Quantity.String())

	var cats []dto.CategoryResponse
	resp = api.do(http.MethodGet, "/api/categories", nil, &cats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, cats, 1)
	assert.Equal(t, "Amenities", cats[0].Name)

	// La sesión es de su usuario.
	other := newAPIFrom(api).login("admin")
	resp = other.do(http.MethodGet, base, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_RutasDeAdmin(t *testing.T) {
	base := newAPI(t)
	user := base.login("recepcion")
	admin := base.login("admin")

	resp := user.do(http.MethodPost, "/api/admin/reset-stock", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = user.do(http.MethodGet, "/api/users", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_ = admin.do(http.MethodPost, "/api/items", map[string]any{"name": "Sábanas", "quantity": 5}, nil)
	var reset dto.ResetStockResponse
	resp = admin.do(http.MethodPost, "/api/admin/reset-stock", nil, &reset)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, reset.Items)
	assert.Equal(t, 1, reset.DeletedTransactions)

	var list []dto.UserResponse
	resp = admin.do(http.MethodGet, "/api/users", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 2)

	resp = base.do(http.MethodGet, "/api/items", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_LoginIncorrecto(t *testing.T) {
	api := newAPI(t)
	var errBody dto.ErrorResponse
	resp := api.do(http.MethodPost, "/api/auth/login", dto.LoginRequest{Username: "admin", Password: "otra"}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errBody.Code)
}

func TestAPI_HealthYMetrics(t *testing.T) {
	api := newAPI(t)
	resp := api.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = api.do(http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "inventario_http_requests_total")
}

func newAPIFrom(a *apiClient) *apiClient {
	return &apiClient{t: a.t, app: a.app}
}
