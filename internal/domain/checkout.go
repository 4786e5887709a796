package domain

import "time"

type CheckoutStatus string

const (
	CheckoutStatusInitiated CheckoutStatus = "INITIATED"
	CheckoutStatusCompleted CheckoutStatus = "COMPLETED"
	CheckoutStatusFailed    CheckoutStatus = "FAILED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentKakaoPay     PaymentMethod = "kakaopay"
	PaymentNaverPay     PaymentMethod = "naverpay"
)

// PaymentMethods lists the methods offered in the checkout dialog, in display order.
var PaymentMethods = []PaymentMethod{PaymentCard, PaymentBankTransfer, PaymentKakaoPay, PaymentNaverPay}

func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Label is the human readable name shown in confirmation messages.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCard:
		return "card"
	case PaymentBankTransfer:
		return "bank transfer"
	case PaymentKakaoPay:
		return "KakaoPay"
	case PaymentNaverPay:
		return "NaverPay"
	default:
		return string(m)
	}
}

type ReceiptItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

// Receipt captures the cart state at the moment a simulated payment was confirmed.
type Receipt struct {
	CheckoutID      string         `json:"checkout_id"`
	SessionID       string         `json:"session_id"`
	Status          CheckoutStatus `json:"status"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	Items           []ReceiptItem  `json:"items"`
	ItemCount       int            `json:"item_count"`
	TotalAmount     float64        `json:"total_amount"`
	TotalFormatted  string         `json:"total_formatted"`
	Currency        string         `json:"currency"`
	Message         string         `json:"message"`
	Redirect        string         `json:"redirect"`
	RedirectAfterMs int64          `json:"redirect_after_ms"`
	CapturedAt      time.Time      `json:"captured_at"`
}
