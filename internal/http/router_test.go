package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/notify"
	"github.com/fjod/go_storefront/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type testServer struct {
	handler http.Handler
	cookie  *http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	registry := session.NewRegistry(time.Minute)
	t.Cleanup(func() { registry.Close() })

	log := zap.NewNop()
	purchaser := checkout.NewService(notify.NewLogNotifier(log), log, checkout.Options{
		Currency:      "KRW",
		Locale:        language.English,
		RedirectDelay: 1500 * time.Millisecond,
	})

	return &testServer{
		handler: NewRouter(RouterDeps{
			Catalog:     &catalogMock{products: testProducts},
			Purchaser:   purchaser,
			Sessions:    registry,
			Log:         log,
			Options:     testOptions,
			MaxBodySize: 1 << 20,
		}),
	}
}

// do sends a request and keeps the session cookie between calls.
func (s *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, target, nil)
	} else {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if s.cookie != nil {
		request.AddCookie(s.cookie)
	}

	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)

	for _, c := range recorder.Result().Cookies() {
		if c.Name == SessionCookieName {
			s.cookie = c
		}
	}
	return recorder
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	recorder := srv.do(t, "GET", "/health", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
	assert.Nil(t, srv.cookie, "health must not start a session")
}

func TestRouter_SessionCookieIsStable(t *testing.T) {
	srv := newTestServer(t)

	first := srv.do(t, "GET", "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, first.Code)
	require.NotNil(t, srv.cookie)
	id := srv.cookie.Value

	second := srv.do(t, "GET", "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Empty(t, second.Result().Cookies(), "known session is not re-issued")
	assert.Equal(t, id, second.Header().Get(SessionHeader))
}

func TestRouter_SessionHeader(t *testing.T) {
	srv := newTestServer(t)

	created := srv.do(t, "POST", "/api/v1/cart/items", `{"product_id": 1, "quantity": 2}`)
	require.Equal(t, http.StatusCreated, created.Code)
	id := created.Header().Get(SessionHeader)
	require.NotEmpty(t, id)

	request := httptest.NewRequest("GET", "/api/v1/cart", nil)
	request.Header.Set(SessionHeader, id)
	recorder := httptest.NewRecorder()
	srv.handler.ServeHTTP(recorder, request)

	var response CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, id, response.SessionID)
	assert.Equal(t, 2, response.ItemCount)
}

func TestRouter_ShoppingFlow(t *testing.T) {
	srv := newTestServer(t)

	products := srv.do(t, "GET", "/api/v1/products?page=1", "")
	require.Equal(t, http.StatusOK, products.Code)

	require.Equal(t, http.StatusCreated, srv.do(t, "POST", "/api/v1/cart/items", `{"product_id": 1, "quantity": 2}`).Code)
	require.Equal(t, http.StatusCreated, srv.do(t, "POST", "/api/v1/cart/items", `{"product_id": 2, "quantity": "abc"}`).Code)
	require.Equal(t, http.StatusOK, srv.do(t, "POST", "/api/v1/cart/items/2/increment", "").Code)
	require.Equal(t, http.StatusOK, srv.do(t, "POST", "/api/v1/cart/items/1/decrement", "").Code)

	recorder := srv.do(t, "GET", "/api/v1/cart", "")
	var cartResponse CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&cartResponse))
	require.Len(t, cartResponse.Items, 2)
	assert.Equal(t, 3, cartResponse.ItemCount)
	assert.Equal(t, float64(45000+2*128000), cartResponse.TotalPrice)
	assert.Equal(t, "301,000", cartResponse.TotalFormatted)

	recorder = srv.do(t, "POST", "/api/v1/checkout", `{"payment_method":"bank_transfer"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var receipt domain.Receipt
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&receipt))
	assert.Equal(t, domain.CheckoutStatusCompleted, receipt.Status)
	assert.Equal(t, 3, receipt.ItemCount)
	assert.Equal(t, "301,000", receipt.TotalFormatted)
	assert.Equal(t, "/", receipt.Redirect)
	assert.Equal(t, int64(1500), receipt.RedirectAfterMs)
	assert.Contains(t, receipt.Message, "bank transfer")

	recorder = srv.do(t, "GET", "/api/v1/cart", "")
	cartResponse = CartResponse{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&cartResponse))
	assert.Empty(t, cartResponse.Items)

	recorder = srv.do(t, "POST", "/api/v1/checkout", `{"payment_method":"card"}`)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestRouter_BuyNowClearsCart(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, http.StatusCreated, srv.do(t, "POST", "/api/v1/cart/items", `{"product_id": 3, "quantity": 5}`).Code)

	recorder := srv.do(t, "POST", "/api/v1/products/2/buy", `{"quantity": 1}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var receipt domain.Receipt
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&receipt))
	assert.Equal(t, domain.PaymentCard, receipt.PaymentMethod)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, int64(2), receipt.Items[0].ProductID)

	recorder = srv.do(t, "GET", "/api/v1/cart", "")
	var cartResponse CartResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&cartResponse))
	assert.Equal(t, 0, cartResponse.ItemCount)
}

func TestRouter_Events(t *testing.T) {
	srv := newTestServer(t)

	recorder := srv.do(t, "GET", "/api/v1/events", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var list map[string][]json.RawMessage
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&list))
	assert.Len(t, list["events"], 3)

	assert.Equal(t, http.StatusOK, srv.do(t, "GET", "/api/v1/events/summer-sale", "").Code)
	assert.Equal(t, http.StatusNotFound, srv.do(t, "GET", "/api/v1/events/black-friday", "").Code)
}

func TestRouter_ProductNotFound(t *testing.T) {
	srv := newTestServer(t)

	recorder := srv.do(t, "GET", "/api/v1/products/404", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "product not found", response.Error)
}

func TestRouter_ZeroTimeout(t *testing.T) {
	registry := session.NewRegistry(time.Minute)
	t.Cleanup(func() { registry.Close() })

	log := zap.NewNop()
	handler := NewRouter(RouterDeps{
		Catalog:   deadlineCatalog{&catalogMock{products: testProducts}},
		Purchaser: checkout.NewService(notify.NewLogNotifier(log), log, checkout.Options{}),
		Sessions:  registry,
		Log:       log,
		Options:   Options{Locale: language.English, Currency: "KRW"},
	})

	for _, target := range []string{"/api/v1/products/1", "/api/v1/products"} {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest("GET", target, nil))
		assert.Equal(t, http.StatusOK, recorder.Code, target)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"product_id": 2}`)))
	assert.Equal(t, http.StatusCreated, recorder.Code)
}
