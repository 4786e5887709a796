package http

import (
	"encoding/json"
	"net/http"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
)

type CheckoutHandler struct {
	purchaser Purchaser
	opts      Options
}

func NewCheckoutHandler(purchaser Purchaser, opts Options) *CheckoutHandler {
	return &CheckoutHandler{
		purchaser: purchaser,
		opts:      opts,
	}
}

type CheckoutRequestDTO struct {
	PaymentMethod string `json:"payment_method"`
}

type PaymentMethodDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opts.requestContext(r)
	defer cancel()

	c := getCart(r.Context())
	if c == nil {
		respondError(w, http.StatusUnauthorized, "no_session", "missing shopper session")
		return
	}
	if c.IsEmpty() {
		handleError(w, checkout.ErrEmptyCart)
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentMethod == "" {
		respondError(w, http.StatusBadRequest, "missing_payment_method", "payment_method is required")
		return
	}

	receipt, err := h.purchaser.Checkout(ctx, getSessionID(r.Context()), c, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, receipt)
}

// GET /api/v1/checkout/methods
func (h *CheckoutHandler) Methods(w http.ResponseWriter, r *http.Request) {
	methods := make([]PaymentMethodDTO, len(domain.PaymentMethods))
	for i, m := range domain.PaymentMethods {
		methods[i] = PaymentMethodDTO{ID: string(m), Label: m.Label()}
	}
	respondJSON(w, http.StatusOK, map[string][]PaymentMethodDTO{"methods": methods})
}
