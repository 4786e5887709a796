package notify

import (
	"context"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
	"go.uber.org/zap"
)

// Notifier announces a completed checkout. Failures never undo the checkout.
type Notifier interface {
	Notify(ctx context.Context, receipt domain.Receipt) error
}

// LogNotifier writes the confirmation to the application log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, r domain.Receipt) error {
	logger.FromContext(ctx, n.log).Info("checkout completed",
		zap.String("checkout_id", r.CheckoutID),
		zap.String("payment_method", string(r.PaymentMethod)),
		zap.Int("item_count", r.ItemCount),
		zap.Float64("total_amount", r.TotalAmount),
		zap.String("currency", r.Currency),
	)
	return nil
}
