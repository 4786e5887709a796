package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/validation"
	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
)

// ProductCatalog is the read side of the catalog used by the handlers.
type ProductCatalog interface {
	Page(ctx context.Context, page int) (*catalog.Page, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
}

// Purchaser confirms simulated payments.
type Purchaser interface {
	Checkout(ctx context.Context, sessionID string, c checkout.Cart, method domain.PaymentMethod) (*domain.Receipt, error)
	BuyNow(ctx context.Context, sessionID string, c checkout.Cart, product domain.Product, quantity int, method domain.PaymentMethod) (*domain.Receipt, error)
}

// Options are shared by all handlers.
type Options struct {
	Timeout  time.Duration
	Locale   language.Tag
	Currency string
}

// requestContext bounds r's context by Timeout. A zero Timeout means no limit.
func (o Options) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if o.Timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), o.Timeout)
}

type ProductHandler struct {
	catalog   ProductCatalog
	purchaser Purchaser
	opts      Options
}

func NewProductHandler(catalog ProductCatalog, purchaser Purchaser, opts Options) *ProductHandler {
	return &ProductHandler{
		catalog:   catalog,
		purchaser: purchaser,
		opts:      opts,
	}
}

type ProductResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	PriceFormatted string  `json:"price_formatted"`
	Volume         string  `json:"volume"`
	Description    string  `json:"description"`
	Image          string  `json:"image"`
}

type ProductsResponse struct {
	Products    []ProductResponse `json:"products"`
	Page        int               `json:"page"`
	PerPage     int               `json:"per_page"`
	TotalPages  int               `json:"total_pages"`
	TotalItems  int               `json:"total_items"`
	PageNumbers []int             `json:"page_numbers"`
	Currency    string            `json:"currency"`
}

type BuyNowRequestDTO struct {
	Quantity      any    `json:"quantity"`
	PaymentMethod string `json:"payment_method"`
}

// GET /api/v1/products?page=N
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opts.requestContext(r)
	defer cancel()

	page := validation.ValidateQuantityRange(r.URL.Query().Get("page"), 1, math.MaxInt32)

	res, err := h.catalog.Page(ctx, page)
	if err != nil {
		handleError(w, err)
		return
	}

	products := make([]ProductResponse, len(res.Products))
	for i, p := range res.Products {
		products[i] = h.productResponse(p)
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{
		Products:    products,
		Page:        res.Page,
		PerPage:     res.PerPage,
		TotalPages:  res.TotalPages,
		TotalItems:  res.TotalItems,
		PageNumbers: res.PageNumbers,
		Currency:    h.opts.Currency,
	})
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opts.requestContext(r)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	p, err := h.catalog.Get(ctx, productID)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.productResponse(p))
}

// POST /api/v1/products/{product_id}/buy
func (h *ProductHandler) BuyNow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opts.requestContext(r)
	defer cancel()

	c := getCart(r.Context())
	if c == nil {
		respondError(w, http.StatusUnauthorized, "no_session", "missing shopper session")
		return
	}

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req BuyNowRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	p, err := h.catalog.Get(ctx, productID)
	if err != nil {
		handleError(w, err)
		return
	}

	receipt, err := h.purchaser.BuyNow(ctx, getSessionID(r.Context()), c, p,
		validation.ValidateQuantity(req.Quantity), domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, receipt)
}

func (h *ProductHandler) productResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		PriceFormatted: validation.FormatPriceIn(h.opts.Locale, p.Price),
		Volume:         p.Volume,
		Description:    p.Description,
		Image:          p.Image,
	}
}

// productIDParam reads {product_id} from the route and writes a 400 when it is
// not a positive integer.
func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
