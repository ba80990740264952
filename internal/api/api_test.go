package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peace-adamu/inventory-management-system/internal/analysis"
	"github.com/peace-adamu/inventory-management-system/internal/api/middleware"
	"github.com/peace-adamu/inventory-management-system/internal/command"
	"github.com/peace-adamu/inventory-management-system/internal/economics"
	"github.com/peace-adamu/inventory-management-system/internal/inventory"
	"github.com/peace-adamu/inventory-management-system/internal/transaction"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	policy := economics.DefaultPolicy()
	store := inventory.NewDemoStore(policy)
	analysisSvc := analysis.NewService(store, policy)
	txSvc := transaction.NewService(store, transaction.NewMemoryLog(), policy)

	return NewRouter(&Services{
		Store:        store,
		Analysis:     analysisSvc,
		Transactions: txSvc,
		Commands:     command.NewDispatcher(store, analysisSvc, txSvc, nil),
	}, []string{"*"})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHealthAndRequestID(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
}

func TestProductRoutes(t *testing.T) {
	router := newTestRouter(t)

	t.Run("list and search", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/products", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 10, decode(t, w)["total"])

		w = doJSON(t, router, http.MethodGet, "/api/v1/products?category=audio", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 2, decode(t, w)["total"])
	})

	t.Run("get is case-insensitive on the id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/products/laptop001", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Gaming Laptop", decode(t, w)["product_name"])
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/products/NOPE001", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, decode(t, w), "details")
	})

	t.Run("add then conflict", func(t *testing.T) {
		body := map[string]interface{}{"product_id": "dock001", "product_name": "USB Dock", "quantity": 5, "price": 59.99, "category": "Accessories"}
		w := doJSON(t, router, http.MethodPost, "/api/v1/products", body)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "DOCK001", decode(t, w)["product_id"])

		w = doJSON(t, router, http.MethodPost, "/api/v1/products", body)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("patch with stale version", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPatch, "/api/v1/products/MOUSE001", map[string]interface{}{"quantity": 90, "expected_version": 7})
		assert.Equal(t, http.StatusConflict, w.Code)

		w = doJSON(t, router, http.MethodPatch, "/api/v1/products/MOUSE001", map[string]interface{}{"quantity": 90})
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 90, decode(t, w)["quantity"])
	})

	t.Run("economics as text", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/products/LAPTOP001/economics?format=text", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "PRODUCT CALCULATIONS: Gaming Laptop")
	})

	t.Run("raw calculator result", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/products/LAPTOP001/calculator", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "LAPTOP001")
	})

	t.Run("info", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/info", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, decode(t, w), "total_inventory_value")
	})
}

func TestImportProducts(t *testing.T) {
	router := newTestRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Product ID,Product Name,Quantity,Price,Category\nDOCK001,USB Dock,7,59.50,Accessories\nLAPTOP001,Gaming Laptop,20,1199.99,Electronics\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/import?update_existing=true", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode(t, w)
	assert.EqualValues(t, 1, res["added"])
	assert.EqualValues(t, 1, res["updated"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/products/import", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransactionRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"type": "sale", "product_id": "laptop001", "quantity": 2, "customer_info": "Acme",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receipt := decode(t, w)
	txn := receipt["transaction"].(map[string]interface{})
	assert.Equal(t, "TXN001000", txn["transaction_id"])
	assert.EqualValues(t, 13, txn["new_stock"])

	w = doJSON(t, router, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"type": "sale", "product_id": "LAPTOP001", "quantity": 1000,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"type": "purchase", "product_id": "LAPTOP001", "quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"type": "refund", "product_id": "LAPTOP001", "quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/transactions/bulk", map[string]interface{}{
		"items":         []map[string]interface{}{{"product_id": "MOUSE001", "quantity": 2}, {"product_id": "HEADPHONE001", "quantity": 1}},
		"customer_info": "Walk-in",
	})
	require.Equal(t, http.StatusOK, w.Code)
	bulk := decode(t, w)
	assert.Len(t, bulk["successful_sales"], 1)
	assert.Len(t, bulk["failed_sales"], 1)

	w = doJSON(t, router, http.MethodGet, "/api/v1/transactions?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["total"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/transactions?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/transactions/daily?date=03-01-2025", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/products/LAPTOP001/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total_transactions"])
}

func TestReportRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["reports"], "abc")

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/value?format=text", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "INVENTORY VALUE ANALYSIS")
	assert.Contains(t, w.Body.String(), "$90,816.72")

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/abc", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/reports/bogus", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/reports/value/archive", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCommandRoute(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/commands", map[string]string{"text": "check LAPTOP001"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode(t, w)
	assert.Equal(t, "product_check", out["kind"])
	assert.Contains(t, out["output"], "PRODUCT STATUS: Gaming Laptop")

	w = doJSON(t, router, http.MethodPost, "/api/v1/commands", map[string]string{"text": "sell 2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/commands", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, allowAll := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " ", "http://c.test"})
	assert.False(t, allowAll)
	assert.Equal(t, []string{"http://a.test", "http://b.test", "http://c.test"}, origins)

	_, allowAll = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, allowAll)
}
