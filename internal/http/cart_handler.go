package http

import (
	"encoding/json"
	"net/http"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/validation"
)

type CartHandler struct {
	catalog ProductCatalog
	opts    Options
}

func NewCartHandler(catalog ProductCatalog, opts Options) *CartHandler {
	return &CartHandler{
		catalog: catalog,
		opts:    opts,
	}
}

// AddItemRequestDTO keeps quantity raw so that strings and out of range numbers
// are clamped instead of rejected.
type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  any   `json:"quantity"`
}

type CartItemResponse struct {
	domain.CartItem
	PriceFormatted    string  `json:"price_formatted"`
	Subtotal          float64 `json:"subtotal"`
	SubtotalFormatted string  `json:"subtotal_formatted"`
}

type CartResponse struct {
	SessionID      string             `json:"session_id"`
	Items          []CartItemResponse `json:"items"`
	ItemCount      int                `json:"item_count"`
	TotalPrice     float64            `json:"total_price"`
	TotalFormatted string             `json:"total_formatted"`
	Currency       string             `json:"currency"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	h.respondCart(w, r, http.StatusOK, c)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opts.requestContext(r)
	defer cancel()

	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	p, err := h.catalog.Get(ctx, req.ProductID)
	if err != nil {
		handleError(w, err)
		return
	}

	c.Add(p, validation.ValidateQuantity(req.Quantity))
	h.respondCart(w, r, http.StatusCreated, c)
}

// POST /api/v1/cart/items/{product_id}/increment
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, (*cart.Store).Increment)
}

// POST /api/v1/cart/items/{product_id}/decrement
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, (*cart.Store).Decrement)
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mutateLine(w, r, (*cart.Store).Remove)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	c.Clear()
	h.respondCart(w, r, http.StatusOK, c)
}

func (h *CartHandler) mutateLine(w http.ResponseWriter, r *http.Request, op func(*cart.Store, int64)) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	op(c, productID)
	h.respondCart(w, r, http.StatusOK, c)
}

func (h *CartHandler) sessionCart(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	c := getCart(r.Context())
	if c == nil {
		respondError(w, http.StatusUnauthorized, "no_session", "missing shopper session")
		return nil, false
	}
	return c, true
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, status int, c *cart.Store) {
	items, count, total := c.Snapshot()

	lines := make([]CartItemResponse, len(items))
	for i, item := range items {
		lines[i] = CartItemResponse{
			CartItem:          item,
			PriceFormatted:    validation.FormatPriceIn(h.opts.Locale, item.Price),
			Subtotal:          item.Subtotal(),
			SubtotalFormatted: validation.FormatPriceIn(h.opts.Locale, item.Subtotal()),
		}
	}

	respondJSON(w, status, &CartResponse{
		SessionID:      getSessionID(r.Context()),
		Items:          lines,
		ItemCount:      count,
		TotalPrice:     total,
		TotalFormatted: validation.FormatPriceIn(h.opts.Locale, total),
		Currency:       h.opts.Currency,
	})
}
