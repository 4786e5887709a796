package notify

import (
	"context"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// BreakerNotifier sends through primary behind a circuit breaker and hands the
// receipt to fallback whenever primary fails or the breaker is open.
type BreakerNotifier struct {
	primary  Notifier
	fallback Notifier
	cb       *gobreaker.CircuitBreaker[struct{}]
	log      *zap.Logger
}

type BreakerSettings struct {
	// MaxFailures consecutive failures open the breaker
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before a trial call
	OpenTimeout time.Duration
}

func NewBreakerNotifier(primary, fallback Notifier, settings BreakerSettings, log *zap.Logger) *BreakerNotifier {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 3
	}
	if settings.OpenTimeout == 0 {
		settings.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "checkout-notifier",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerNotifier{
		primary:  primary,
		fallback: fallback,
		cb:       cb,
		log:      log,
	}
}

func (n *BreakerNotifier) Notify(ctx context.Context, r domain.Receipt) error {
	_, err := n.cb.Execute(func() (struct{}, error) {
		return struct{}{}, n.primary.Notify(ctx, r)
	})
	if err == nil {
		return nil
	}

	logger.FromContext(ctx, n.log).Warn("primary notifier failed, using fallback",
		zap.String("checkout_id", r.CheckoutID),
		zap.Error(err),
	)
	return n.fallback.Notify(ctx, r)
}

func (n *BreakerNotifier) State() gobreaker.State {
	return n.cb.State()
}
