package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/notify"
	"github.com/fjod/go_storefront/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Cart is the part of cart.Store a checkout needs.
type Cart interface {
	IsEmpty() bool
	Drain() []domain.CartItem
	Clear()
}

type Options struct {
	Currency      string
	Locale        language.Tag
	RedirectDelay time.Duration
}

// Service simulates payment confirmation. No money moves: a checkout empties
// the cart, publishes a notification and tells the client where to go next.
type Service struct {
	notifier notify.Notifier
	log      *zap.Logger
	opts     Options
	now      func() time.Time
}

func NewService(notifier notify.Notifier, log *zap.Logger, opts Options) *Service {
	if opts.Currency == "" {
		opts.Currency = "KRW"
	}
	if opts.Locale == language.Und {
		opts.Locale = validation.DefaultLocale
	}
	return &Service{
		notifier: notifier,
		log:      log,
		opts:     opts,
		now:      time.Now,
	}
}

// Checkout pays for everything in the cart with method and empties it. An empty
// cart is reported before the method is looked at.
func (s *Service) Checkout(ctx context.Context, sessionID string, c Cart, method domain.PaymentMethod) (*domain.Receipt, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, method)
	}

	items := c.Drain()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	receipt := s.receipt(sessionID, method, items)
	s.notify(ctx, receipt)
	return receipt, nil
}

// BuyNow purchases a single product immediately. The session cart is emptied,
// the same as after a regular checkout. An empty method means card.
func (s *Service) BuyNow(ctx context.Context, sessionID string, c Cart, product domain.Product, quantity int, method domain.PaymentMethod) (*domain.Receipt, error) {
	if method == "" {
		method = domain.PaymentCard
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, method)
	}

	c.Clear()
	receipt := s.receipt(sessionID, method, []domain.CartItem{domain.NewCartItem(product, quantity)})
	s.notify(ctx, receipt)
	return receipt, nil
}

func (s *Service) receipt(sessionID string, method domain.PaymentMethod, items []domain.CartItem) *domain.Receipt {
	lines := make([]domain.ReceiptItem, 0, len(items))
	var total float64
	count := 0
	for _, item := range items {
		lines = append(lines, domain.ReceiptItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
			Subtotal:    item.Subtotal(),
		})
		total += item.Subtotal()
		count += item.Quantity
	}

	formatted := validation.FormatPriceIn(s.opts.Locale, total)
	return &domain.Receipt{
		CheckoutID:      uuid.New().String(),
		SessionID:       sessionID,
		Status:          domain.CheckoutStatusCompleted,
		PaymentMethod:   method,
		Items:           lines,
		ItemCount:       count,
		TotalAmount:     total,
		TotalFormatted:  formatted,
		Currency:        s.opts.Currency,
		Message:         fmt.Sprintf("Payment of %s %s by %s completed. Thank you!", formatted, s.opts.Currency, method.Label()),
		Redirect:        "/",
		RedirectAfterMs: s.opts.RedirectDelay.Milliseconds(),
		CapturedAt:      s.now().UTC(),
	}
}

func (s *Service) notify(ctx context.Context, r *domain.Receipt) {
	if err := s.notifier.Notify(ctx, *r); err != nil {
		logger.FromContext(ctx, s.log).Error("checkout notification failed",
			zap.String("checkout_id", r.CheckoutID),
			zap.Error(err),
		)
	}
}
