package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-pos-backoffice/internal/auth"
	"go-pos-backoffice/internal/middleware"
	"go-pos-backoffice/internal/models"
	"go-pos-backoffice/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	router *gin.Engine
	store  *store.Store
	token  string
	userID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s := store.New(db)
	require.NoError(t, s.Migrate())

	user, err := s.CreateUser(store.NewUser{
		BusinessName: "Corner Shop",
		PIN:          "123456",
		BusinessType: "retail",
	})
	require.NoError(t, err)

	token, err := auth.GenerateToken(user.ID, user.BusinessName)
	require.NoError(t, err)

	h := New(s)
	r := gin.New()
	r.POST("/login", h.Login)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	api.GET("/menu", h.ListMenuItems)
	api.POST("/menu", h.CreateMenuItem)
	api.GET("/menu/:id", h.GetMenuItem)
	api.POST("/customers", h.CreateCustomer)
	api.GET("/customers/search", h.SearchCustomers)
	api.GET("/customers/:id", h.GetCustomer)
	api.PUT("/customers/:id", h.UpdateCustomer)
	api.DELETE("/customers/:id", h.DeactivateCustomer)
	api.POST("/transactions", h.CreateTransaction)
	api.GET("/transactions/summary", h.SalesSummary)
	api.GET("/transactions/:id", h.GetTransaction)
	api.GET("/transactions/:id/receipt", h.TransactionReceipt)
	api.GET("/quotations/:id", h.GetQuotation)
	api.DELETE("/quotations/:id", h.DeleteQuotation)
	api.GET("/documents/:id", h.GetDocument)

	return &testEnv{router: r, store: s, token: token, userID: user.ID}
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	return e.doAs(e.token, method, path, body)
}

func (e *testEnv) doAs(token, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"business_name":"Corner Shop","pin":"123456"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, env.userID, resp["user_id"])

	// Wrong PIN looks identical to unknown business.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"business_name":"Corner Shop","pin":"000000"}`))
	req.Header.Set("Content-Type", "application/json")
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMenuEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/menu", gin.H{"name": "Tea", "price": "3.00", "category": "drinks"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created["id"])

	// Bad price maps to 400, not 500.
	w = env.do(http.MethodPost, "/api/menu", gin.H{"name": "Kopi", "price": "cheap", "category": "drinks"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown id maps to 404.
	w = env.do(http.MethodGet, "/api/menu/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}

func TestTransactionFlowOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/transactions", gin.H{
		"items": []gin.H{
			{"offering_id": "x", "name": "Tea", "quantity": 2, "unit_price": "3.00", "total_price": "6.00"},
		},
		"total_amount": "6.00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var txn map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txn))
	id := txn["id"].(string)

	w = env.do(http.MethodGet, "/api/transactions/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "6.00", summary["total_revenue"])

	w = env.do(http.MethodGet, "/api/transactions/"+id+"/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CORNER SHOP")
	assert.Contains(t, w.Body.String(), "2x Tea")
}

func TestCustomerSearchWithoutTermListsAll(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/customers", gin.H{"name": "Aisha", "phone": "0121111111"})
	require.Equal(t, http.StatusCreated, w.Code)

	// No ?q= means the full customer list, not an error.
	w = env.do(http.MethodGet, "/api/customers/search", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var customers []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, "Aisha", customers[0]["name"])
}

func TestTenantIsolationOnByIDRoutes(t *testing.T) {
	env := newTestEnv(t)

	intruder, err := env.store.CreateUser(store.NewUser{
		BusinessName: "Other Shop",
		PIN:          "654321",
		BusinessType: "retail",
	})
	require.NoError(t, err)
	intruderToken, err := auth.GenerateToken(intruder.ID, intruder.BusinessName)
	require.NoError(t, err)

	phone := "0121111111"
	customer, err := env.store.CreateCustomer(store.NewCustomer{OwnerID: env.userID, Name: "Aisha", Phone: &phone})
	require.NoError(t, err)

	items := []models.LineItem{{Name: "Tea", Quantity: 1, UnitPrice: "3.00", TotalPrice: "3.00"}}
	txn, err := env.store.CreateTransaction(store.NewTransaction{OwnerID: env.userID, Items: items, TotalAmount: "3.00"})
	require.NoError(t, err)
	quotation, err := env.store.CreateQuotation(store.NewQuotation{
		OwnerID: env.userID, CustomerName: "Aisha",
		LineItems: items, Subtotal: "3.00", TotalAmount: "3.00",
	})
	require.NoError(t, err)
	doc, err := env.store.CreateDocument(store.NewDocument{
		OwnerID: env.userID, Kind: store.KindInvoice, CustomerName: "Aisha",
		TotalAmount: "3.00", Invoice: &store.InvoiceFields{},
	})
	require.NoError(t, err)

	// The owner can read their own records.
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/customers/"+customer.ID, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/transactions/"+txn.ID, nil).Code)

	// Another tenant holding a valid token sees 404 everywhere.
	foreign := [][2]string{
		{http.MethodGet, "/api/customers/" + customer.ID},
		{http.MethodGet, "/api/transactions/" + txn.ID},
		{http.MethodGet, "/api/transactions/" + txn.ID + "/receipt"},
		{http.MethodGet, "/api/quotations/" + quotation.ID},
		{http.MethodDelete, "/api/quotations/" + quotation.ID},
		{http.MethodGet, "/api/documents/" + doc.ID},
		{http.MethodDelete, "/api/customers/" + customer.ID},
	}
	for _, f := range foreign {
		w := env.doAs(intruderToken, f[0], f[1], nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", f[0], f[1])
	}

	// Foreign writes must not change anything.
	w := env.doAs(intruderToken, http.MethodPut, "/api/customers/"+customer.ID, gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	got, err := env.store.GetCustomer(customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aisha", got.Name)
	require.NotNil(t, got.IsActive)
	assert.True(t, *got.IsActive, "foreign delete must not deactivate")

	_, err = env.store.GetQuotation(quotation.ID)
	require.NoError(t, err, "foreign delete must not remove the quotation")
}

func TestCreateCustomerContactRule(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/customers", gin.H{"name": "Aisha"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "phone or email is required")

	w = env.do(http.MethodPost, "/api/customers", gin.H{"name": "Aisha", "phone": "0121111111"})
	require.Equal(t, http.StatusCreated, w.Code)
	var customer map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customer))
	assert.Equal(t, "CUST-001", customer["customer_id"])
}
