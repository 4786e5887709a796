package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckout_Success(t *testing.T) {
	purchaser := &purchaserMock{receipt: &domain.Receipt{
		CheckoutID:      "chk-42",
		Status:          domain.CheckoutStatusCompleted,
		PaymentMethod:   domain.PaymentNaverPay,
		Redirect:        "/",
		RedirectAfterMs: 1500,
	}}
	handler := NewCheckoutHandler(purchaser, testOptions)

	c := cart.NewStore()
	c.Add(testProducts[0], 2)

	recorder := httptest.NewRecorder()
	handler.Checkout(recorder, cartRequest("POST", "/checkout", `{"payment_method":"naverpay"}`, c))

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, domain.PaymentNaverPay, purchaser.method)
	assert.True(t, c.IsEmpty())

	var response domain.Receipt
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "chk-42", response.CheckoutID)
	assert.Equal(t, "/", response.Redirect)
	assert.Equal(t, int64(1500), response.RedirectAfterMs)
}

func TestCheckout_EmptyCart(t *testing.T) {
	handler := NewCheckoutHandler(&purchaserMock{err: checkout.ErrEmptyCart}, testOptions)

	recorder := httptest.NewRecorder()
	handler.Checkout(recorder, cartRequest("POST", "/checkout", `{"payment_method":"card"}`, cart.NewStore()))

	assert.Equal(t, http.StatusConflict, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "cart_empty", response.Code)
	assert.Contains(t, response.Error, "cart is empty")
}

func TestCheckout_EmptyCartWinsOverBadMethod(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"payment_method":"cash"}`} {
		t.Run(body, func(t *testing.T) {
			purchaser := &purchaserMock{}
			handler := NewCheckoutHandler(purchaser, testOptions)

			recorder := httptest.NewRecorder()
			handler.Checkout(recorder, cartRequest("POST", "/checkout", body, cart.NewStore()))

			assert.Equal(t, http.StatusConflict, recorder.Code)

			var response ErrorResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
			assert.Equal(t, "cart_empty", response.Code)
		})
	}
}

func TestCheckout_UnknownPaymentMethod(t *testing.T) {
	err := fmt.Errorf("%w: %q", checkout.ErrUnknownPaymentMethod, "cash")
	handler := NewCheckoutHandler(&purchaserMock{err: err}, testOptions)

	c := cart.NewStore()
	c.Add(testProducts[0], 1)

	recorder := httptest.NewRecorder()
	handler.Checkout(recorder, cartRequest("POST", "/checkout", `{"payment_method":"cash"}`, c))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "invalid_payment_method", response.Code)
}

func TestCheckout_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"invalid JSON", `{`, "invalid_request"},
		{"empty body", ``, "invalid_request"},
		{"missing method", `{}`, "missing_payment_method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			purchaser := &purchaserMock{}
			handler := NewCheckoutHandler(purchaser, testOptions)

			c := cart.NewStore()
			c.Add(testProducts[0], 1)

			recorder := httptest.NewRecorder()
			handler.Checkout(recorder, cartRequest("POST", "/checkout", tt.body, c))

			assert.Equal(t, http.StatusBadRequest, recorder.Code)

			var response ErrorResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
			assert.Equal(t, tt.code, response.Code)
			assert.Empty(t, purchaser.method, "purchaser must not be called")
		})
	}
}

func TestCheckoutMethods(t *testing.T) {
	handler := NewCheckoutHandler(&purchaserMock{}, testOptions)

	recorder := httptest.NewRecorder()
	handler.Methods(recorder, httptest.NewRequest("GET", "/checkout/methods", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var response map[string][]PaymentMethodDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response["methods"], 4)
	assert.Equal(t, PaymentMethodDTO{ID: "card", Label: "card"}, response["methods"][0])
	assert.Equal(t, PaymentMethodDTO{ID: "kakaopay", Label: "KakaoPay"}, response["methods"][2])
}
