package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ashendes/bec-market/internal/assistant"
	"github.com/ashendes/bec-market/internal/auth"
	"github.com/ashendes/bec-market/internal/catalog"
	"github.com/ashendes/bec-market/internal/models"
	"github.com/ashendes/bec-market/internal/orders"
	"github.com/ashendes/bec-market/internal/patterns"
	"github.com/ashendes/bec-market/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	router     *gin.Engine
	mem        *store.Memory
	userToken  string
	adminToken string
}

func newHarness(t *testing.T, assistantURL string) *harness {
	t.Helper()
	return newHarnessWithOrders(t, assistantURL, nil)
}

// newHarnessWithOrders keeps orders in orderStore when it is non-nil.
func newHarnessWithOrders(t *testing.T, assistantURL string, orderStore store.OrderStore) *harness {
	t.Helper()

	mem := store.NewMemory()
	if orderStore == nil {
		orderStore = mem
	}
	tokens := auth.NewTokens("test-secret", time.Hour)
	opts := patterns.DefaultGuardOptions()
	opts.Timeout = 2 * time.Second

	cat := catalog.NewService(mem)
	apiKey := ""
	if assistantURL != "" {
		apiKey = "test-key"
	}

	srv := NewServer(Deps{
		Catalog:   cat,
		Orders:    orders.NewService(orderStore, "0820000000"),
		Accounts:  auth.NewService(mem, tokens),
		Users:     mem,
		Assistant: assistant.New(assistant.Config{APIKey: apiKey, BaseURL: assistantURL, Guard: opts}, cat),
	})

	userToken, err := tokens.Issue(models.UserProfile{Name: "Somchai", Email: "somchai@bec.ac.th", Role: models.RoleUser})
	require.NoError(t, err)
	adminToken, err := tokens.Issue(models.UserProfile{Name: "Admin", Email: "admin@bec.ac.th", Role: models.RoleAdmin})
	require.NoError(t, err)

	return &harness{router: srv.Router(), mem: mem, userToken: userToken, adminToken: adminToken}
}

func (h *harness) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestProducts(t *testing.T) {
	h := newHarness(t, "")

	w := h.do(t, http.MethodGet, "/products?q=%E0%B9%80%E0%B8%AA%E0%B8%B7%E0%B9%89%E0%B8%AD&category=all", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Products []models.Product `json:"products"`
		Count    int              `json:"count"`
	}](t, w)
	assert.Equal(t, 9, body.Count)
	assert.Equal(t, "1", body.Products[0].ID)

	w = h.do(t, http.MethodGet, "/products/recommended", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec := decode[struct {
		Products []models.Product `json:"products"`
	}](t, w)
	assert.Len(t, rec.Products, DefaultRecommendedLimit)

	w = h.do(t, http.MethodGet, "/products/recommended?limit=x", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendedLimitBounds(t *testing.T) {
	h := newHarness(t, "")

	for _, limit := range []string{"-1", "101", "100000000000"} {
		w := h.do(t, http.MethodGet, "/products/recommended?limit="+limit, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, limit)
	}

	w := h.do(t, http.MethodGet, "/products/recommended?limit=100", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec := decode[struct {
		Products []models.Product `json:"products"`
	}](t, w)
	assert.Len(t, rec.Products, 6)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	h := newHarness(t, "")

	w := h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "uniforms need a size")

	for i := 0; i < 2; i++ {
		w = h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "1", Size: "m"})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "22", Size: "XL"})
	require.Equal(t, http.StatusOK, w.Code)

	summary := decode[models.CartSummary](t, w)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, 580, summary.Total)
	assert.Equal(t, "M", summary.Items[0].SelectedSize)
	assert.Empty(t, summary.Items[1].SelectedSize, "accessories carry no size")

	w = h.do(t, http.MethodPatch, "/cart/items/1", h.userToken, models.ChangeQuantityRequest{Size: "M", Delta: -5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 350, decode[models.CartSummary](t, w).Total)

	w = h.do(t, http.MethodPatch, "/cart/items/1", h.userToken, models.ChangeQuantityRequest{Size: "M", Delta: 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodPost, "/checkout", h.userToken, models.CheckoutRequest{
		Shipping: &models.ShippingInfo{Name: "Somchai", Phone: "0812345678", Address: "Ban Phue", Province: "Udon Thani"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[models.CheckoutResponse](t, w)
	assert.Equal(t, 580, resp.Order.Total)
	assert.Equal(t, models.OrderStatusPending, resp.Order.Status)
	assert.Equal(t, "PROMPTPAY|0820000000|580", resp.Payment.Payload)

	w = h.do(t, http.MethodGet, "/cart", h.userToken, nil)
	assert.Equal(t, 0, decode[models.CartSummary](t, w).Count)

	w = h.do(t, http.MethodGet, "/orders", h.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[struct {
		Orders []models.Order `json:"orders"`
	}](t, w)
	require.Len(t, mine.Orders, 1)
	assert.Equal(t, resp.Order.ID, mine.Orders[0].ID)

	w = h.do(t, http.MethodPost, "/checkout", h.userToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty cart")
}

func TestRemoveCartItem(t *testing.T) {
	h := newHarness(t, "")

	h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "1", Size: "L"})
	h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "48"})

	w := h.do(t, http.MethodDelete, "/cart/items/1?size=l", h.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[models.CartSummary](t, w)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "48", summary.Items[0].ID)

	w = h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartSizeIsNormalised(t *testing.T) {
	h := newHarness(t, "")

	h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "1", Size: " m "})

	w := h.do(t, http.MethodPatch, "/cart/items/1", h.userToken, models.ChangeQuantityRequest{Size: " m", Delta: 1})
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[models.CartSummary](t, w)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "M", summary.Items[0].SelectedSize)
	assert.Equal(t, 2, summary.Items[0].Quantity)

	w = h.do(t, http.MethodDelete, "/cart/items/1?size=%20m", h.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[models.CartSummary](t, w).Items)
}

func TestCartQuantityIsBounded(t *testing.T) {
	h := newHarness(t, "")

	h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "48"})

	w := h.do(t, http.MethodPatch, "/cart/items/48", h.userToken, models.ChangeQuantityRequest{Delta: 0})
	require.Equal(t, http.StatusOK, w.Code, "a zero delta is a no-op")
	assert.Equal(t, 1, decode[models.CartSummary](t, w).Count)

	w = h.do(t, http.MethodPatch, "/cart/items/48", h.userToken, models.ChangeQuantityRequest{Delta: 4611686018427387904})
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[models.CartSummary](t, w)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, models.MaxLineQuantity, summary.Items[0].Quantity)
	assert.Equal(t, 5*models.MaxLineQuantity, summary.Total)

	w = h.do(t, http.MethodPost, "/checkout", h.userToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 5*models.MaxLineQuantity, decode[models.CheckoutResponse](t, w).Order.Total)
}

// unreachableOrders fails every order write.
type unreachableOrders struct {
	*store.Memory
}

func (unreachableOrders) CreateOrder(context.Context, models.Order) (models.Order, error) {
	return models.Order{}, models.NewRemoteError("supabase", errors.New("connection refused"))
}

func TestCheckoutKeepsCartWhenOrderIsNotSaved(t *testing.T) {
	h := newHarnessWithOrders(t, "", unreachableOrders{store.NewMemory()})

	h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "1", Size: "M"})
	h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "1", Size: "M"})
	h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "22"})
	before := decode[models.CartSummary](t, h.do(t, http.MethodGet, "/cart", h.userToken, nil))
	require.Equal(t, 580, before.Total)

	w := h.do(t, http.MethodPost, "/checkout", h.userToken, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())

	w = h.do(t, http.MethodGet, "/cart", h.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	after := decode[models.CartSummary](t, w)
	assert.Equal(t, before, after)
	assert.Equal(t, 3, after.Count)
	assert.Equal(t, 580, after.Total)
}

func TestShopperRoutesNeedToken(t *testing.T) {
	h := newHarness(t, "")

	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodGet, "/cart", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, h.do(t, http.MethodPost, "/checkout", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, h.do(t, http.MethodGet, "/admin/orders", h.userToken, nil).Code)
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t, "")

	reg := models.RegisterRequest{Name: "Malee", Email: "malee@bec.ac.th", Password: "secret1"}
	w := h.do(t, http.MethodPost, "/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(t, http.MethodPost, "/auth/register", "", reg)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(t, http.MethodPost, "/auth/register", "", models.RegisterRequest{Name: "x", Email: "not-an-email", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: "malee@bec.ac.th", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(t, http.MethodPost, "/auth/login", "", models.LoginRequest{Email: "malee@bec.ac.th", Password: "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[models.LoginResponse](t, w)

	w = h.do(t, http.MethodGet, "/cart", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminOrderLifecycle(t *testing.T) {
	h := newHarness(t, "")

	h.do(t, http.MethodPost, "/cart/items", h.userToken, models.AddCartItemRequest{ProductID: "48"})
	w := h.do(t, http.MethodPost, "/checkout", h.userToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode[models.CheckoutResponse](t, w).Order.ID

	w = h.do(t, http.MethodPost, "/admin/orders/"+id+"/ship", h.adminToken, models.Shipment{Company: "Flash", TrackingNumber: "TH123"})
	assert.Equal(t, http.StatusConflict, w.Code, "cannot ship a pending order")

	w = h.do(t, http.MethodPost, "/admin/orders/"+id+"/confirm", h.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodPost, "/admin/orders/"+id+"/ship", h.adminToken, models.Shipment{Company: "Flash"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodPost, "/admin/orders/"+id+"/ship", h.adminToken, models.Shipment{Company: "Flash", TrackingNumber: "TH123"})
	require.Equal(t, http.StatusOK, w.Code)
	shipped := decode[models.Order](t, w)
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)
	assert.Equal(t, "TH123", shipped.TrackingNumber)

	w = h.do(t, http.MethodPost, "/admin/orders/"+id+"/cancel", h.adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(t, http.MethodPost, "/admin/orders/"+id+"/deliver", h.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, http.MethodPost, "/admin/orders/ORD-missing/confirm", h.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, http.MethodGet, "/admin/stats", h.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[struct {
		Orders models.OrderStats `json:"orders"`
		Users  int               `json:"users"`
	}](t, w)
	assert.Equal(t, 5, stats.Orders.TotalSales)
	assert.Equal(t, 1, stats.Orders.ByStatus[models.OrderStatusShipped])
}

func TestAdminProducts(t *testing.T) {
	h := newHarness(t, "")
	price := 45

	w := h.do(t, http.MethodPost, "/admin/products", h.adminToken, models.ProductDraft{
		Name: "ปากกา", Price: &price, Category: models.CategoryStationery,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Product](t, w)
	assert.True(t, catalog.IsCustomID(created.ID))

	w = h.do(t, http.MethodGet, "/products?category="+string(models.CategoryStationery), "", nil)
	listed := decode[struct {
		Products []models.Product `json:"products"`
	}](t, w)
	assert.Len(t, listed.Products, 2)

	price = 50
	w = h.do(t, http.MethodPut, "/admin/products/"+created.ID, h.adminToken, models.ProductDraft{
		Name: "ปากกา", Price: &price, Category: models.CategoryStationery,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, decode[models.Product](t, w).Price)

	w = h.do(t, http.MethodPut, "/admin/products/1", h.adminToken, models.ProductDraft{
		Name: "x", Price: &price, Category: models.CategoryUniform,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(t, http.MethodDelete, "/admin/products/"+created.ID, h.adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = h.do(t, http.MethodDelete, "/admin/products/"+created.ID, h.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUsers(t *testing.T) {
	h := newHarness(t, "")
	require.NoError(t, h.mem.CreateAccount(context.Background(), models.UserAccount{
		UserProfile:  models.UserProfile{Name: "A", Email: "a@bec.ac.th", Role: models.RoleUser},
		PasswordHash: "hash",
	}))

	w := h.do(t, http.MethodGet, "/admin/users", h.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "hash")
	users := decode[struct {
		Users []models.UserProfile `json:"users"`
	}](t, w)
	require.Len(t, users.Users, 1)
	assert.Equal(t, "a@bec.ac.th", users.Users[0].Email)
}

func TestChat(t *testing.T) {
	chat := models.ChatRequest{Messages: []models.ChatMessage{{Role: models.ChatRoleUser, Text: "มีเนคไทไหม"}}}

	t.Run("not configured", func(t *testing.T) {
		h := newHarness(t, "")
		w := h.do(t, http.MethodPost, "/assistant/chat", "", chat)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, assistant.FallbackNotConfigured, decode[models.ChatResponse](t, w).Reply)
	})

	t.Run("reply", func(t *testing.T) {
		gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"มีครับ ราคา 120 บาท"}]}}]}`))
		}))
		defer gemini.Close()

		h := newHarness(t, gemini.URL)
		w := h.do(t, http.MethodPost, "/assistant/chat", "", chat)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "มีครับ ราคา 120 บาท", decode[models.ChatResponse](t, w).Reply)
	})

	t.Run("backend failure", func(t *testing.T) {
		gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer gemini.Close()

		h := newHarness(t, gemini.URL)
		w := h.do(t, http.MethodPost, "/assistant/chat", "", chat)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, assistant.FallbackUnavailable, decode[models.ChatResponse](t, w).Reply)
	})

	t.Run("invalid role", func(t *testing.T) {
		h := newHarness(t, "")
		bad := models.ChatRequest{Messages: []models.ChatMessage{{Role: "system", Text: "x"}}}
		assert.Equal(t, http.StatusBadRequest, h.do(t, http.MethodPost, "/assistant/chat", "", bad).Code)
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrUnauthenticated, http.StatusUnauthorized},
		{models.NewValidationError("x"), http.StatusBadRequest},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrConflict, http.StatusConflict},
		{models.NewRemoteError("supabase", errors.New("down")), http.StatusBadGateway},
		{assistant.ErrNotConfigured, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t, "")
	w := h.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}
