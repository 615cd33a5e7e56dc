package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pizzeria/api/customer"
	"pizzeria/api/health"
	"pizzeria/api/order"
	"pizzeria/api/pizza"
	customerapp "pizzeria/application/customer"
	orderapp "pizzeria/application/order"
	pizzaapp "pizzeria/application/pizza"
	"pizzeria/config"
	"pizzeria/infrastructure/persistence/memory"
	"pizzeria/pkg/logger"
	"pizzeria/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
}

type testServer struct {
	engine *gin.Engine
	logs   *observer.ObservedLogs
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	t.Cleanup(logger.SetForTest(zap.New(core)))

	cfg := &config.Config{
		App:      config.AppConfig{Name: "pizzeria", Version: "test", Env: "test"},
		Database: config.DatabaseConfig{Type: "memory"},
		CORS:     config.CORSConfig{AllowOrigins: []string{"*"}, AllowMethods: []string{"GET"}},
	}
	m := metrics.New()

	store := memory.NewStore()
	orders := memory.NewOrderRepository(store)
	customers := memory.NewCustomerRepository(store)
	pizzas := memory.NewPizzaRepository(store)
	uowFactory := memory.NewUnitOfWorkFactory(store, nil)

	controllers := []ControllerRegister{
		health.NewController(cfg, nil),
		customer.NewController(customerapp.NewApplicationService(customers, orders, uowFactory)),
		pizza.NewController(pizzaapp.NewApplicationService(pizzas, uowFactory)),
		order.NewController(orderapp.NewApplicationService(orders, customers, pizzas, uowFactory, m)),
	}
	routes := []Route{{Method: http.MethodGet, Path: "/metrics", Handler: gin.WrapH(m.Handler())}}

	router := NewRouter(cfg, m, controllers, nil, routes)
	router.SetupRoutes()
	return &testServer{engine: router.GetEngine(), logs: logs}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (s *testServer) create(t *testing.T, path string, body any) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	return created.ID
}

func (s *testServer) seed(t *testing.T) (customerID, pizzaID string) {
	customerID = s.create(t, "/api/v1/customers", map[string]any{
		"name": "Ana", "email": "ana@example.com", "phone": "1190000", "address": "Rua B, 1",
	})
	pizzaID = s.create(t, "/api/v1/pizzas", map[string]any{
		"name": "Margherita", "price": "45.00", "size": "LARGE",
	})
	return customerID, pizzaID
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	customerID, pizzaID := s.seed(t)

	orderID := s.create(t, "/api/v1/orders", map[string]any{
		"customer_id": customerID,
		"items":       []map[string]any{{"pizza_id": pizzaID, "quantity": 2}},
	})

	rec, env := s.do(t, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "90.00", got.TotalAmount)
	assert.Equal(t, "PENDING", got.Status)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, rec.Header().Get("X-Request-ID"))

	for _, step := range []string{"confirm", "start-preparing", "mark-ready", "mark-in-delivery", "mark-delivered"} {
		rec, _ := s.do(t, http.MethodPut, "/api/v1/orders/"+orderID+"/"+step, nil)
		require.Equal(t, http.StatusOK, rec.Code, step)
	}

	rec, env = s.do(t, http.MethodPut, "/api/v1/orders/"+orderID+"/cancel", map[string]string{"reason": "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_ORDER_STATE", env.Error)
	assert.False(t, env.Success)

	rec, env = s.do(t, http.MethodGet, "/api/v1/orders/status/delivered", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var delivered []orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &delivered))
	assert.Len(t, delivered, 1)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/customers/"+customerID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/v1/orders/"+orderID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	customerID, pizzaID := s.seed(t)

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"missing order", http.MethodGet, "/api/v1/orders/nope", nil, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"missing customer", http.MethodGet, "/api/v1/customers/nope", nil, http.StatusNotFound, "CUSTOMER_NOT_FOUND"},
		{"missing pizza", http.MethodGet, "/api/v1/pizzas/nope", nil, http.StatusNotFound, "PIZZA_NOT_FOUND"},
		{"empty items", http.MethodPost, "/api/v1/orders", map[string]any{"customer_id": customerID}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown pizza", http.MethodPost, "/api/v1/orders", map[string]any{
			"customer_id": customerID,
			"items":       []map[string]any{{"pizza_id": "ghost", "quantity": 1}},
		}, http.StatusNotFound, "PIZZA_NOT_FOUND"},
		{"unknown customer", http.MethodPost, "/api/v1/orders", map[string]any{
			"customer_id": "ghost",
			"items":       []map[string]any{{"pizza_id": pizzaID, "quantity": 1}},
		}, http.StatusNotFound, "CUSTOMER_NOT_FOUND"},
		{"malformed body", http.MethodPost, "/api/v1/orders", map[string]any{"items": "x"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad status", http.MethodGet, "/api/v1/orders/status/LOST", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad date", http.MethodGet, "/api/v1/orders/search/date-range?start=yesterday&end=today", nil, http.StatusBadRequest, "BAD_REQUEST"},
		{"inverted range", http.MethodGet, "/api/v1/orders/search/date-range?start=2030-01-02T00:00:00Z&end=2030-01-01T00:00:00Z", nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"duplicate email", http.MethodPost, "/api/v1/customers", map[string]any{
			"name": "Ana Dois", "email": "ANA@example.com", "phone": "1190001", "address": "Rua C, 2",
		}, http.StatusConflict, "EMAIL_ALREADY_EXISTS"},
		{"no route", http.MethodGet, "/api/v1/nothing", nil, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := s.do(t, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.code, env.Error)
			assert.Equal(t, tc.status, env.Code)
		})
	}
}

func TestDateRangeQuery(t *testing.T) {
	s := newTestServer(t)
	customerID, pizzaID := s.seed(t)
	s.create(t, "/api/v1/orders", map[string]any{
		"customer_id": customerID,
		"items":       []map[string]any{{"pizza_id": pizzaID, "quantity": 1}},
	})

	start := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	end := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	rec, env := s.do(t, http.MethodGet, "/api/v1/orders/search/date-range?start="+start+"&end="+end, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var found []orderapp.OrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Len(t, found, 1)
}

func TestAccessLogAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/health/live", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries := s.logs.FilterMessage("HTTP Request").All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "/api/v1/health/live", entries[len(entries)-1].ContextMap()["path"])

	rec, _ = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/v1/health/live"`)
}

func TestHealthWithoutDatabase(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body health.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "memory", body.Store)
}
