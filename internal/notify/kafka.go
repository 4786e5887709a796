package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	DefaultTopic           = "checkout-completed"
	EventCheckoutCompleted = "checkout.completed"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// CheckoutCompletedEvent is the payload published for every confirmed checkout.
type CheckoutCompletedEvent struct {
	CheckoutID    string               `json:"checkout_id"`
	SessionID     string               `json:"session_id"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Items         []domain.ReceiptItem `json:"items"`
	TotalAmount   float64              `json:"total_amount"`
	Currency      string               `json:"currency"`
	CompletedAt   time.Time            `json:"completed_at"`
}

type KafkaNotifier struct {
	writer messageWriter
}

func NewKafkaNotifier(topic string, brokers ...string) *KafkaNotifier {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return &KafkaNotifier{writer: w}
}

func (n *KafkaNotifier) Notify(ctx context.Context, r domain.Receipt) error {
	payload, err := json.Marshal(CheckoutCompletedEvent{
		CheckoutID:    r.CheckoutID,
		SessionID:     r.SessionID,
		PaymentMethod: r.PaymentMethod,
		Items:         r.Items,
		TotalAmount:   r.TotalAmount,
		Currency:      r.Currency,
		CompletedAt:   r.CapturedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal checkout event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(r.CheckoutID), // checkout_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventCheckoutCompleted)},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish checkout event: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
