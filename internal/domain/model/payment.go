package model

import (
	"fmt"
	"math"
	"time"
)

// OperationStatus is the resolved state of a QR payment operation.
type OperationStatus string

const (
	StatusPaid    OperationStatus = "paid"
	StatusPending OperationStatus = "pending"
	StatusError   OperationStatus = "error"
)

// StatusResult is the answer to a status poll. It is always well-formed:
// a gateway failure is carried as StatusError, never as a Go error.
type StatusResult struct {
	Success      bool            `json:"success"`
	Status       OperationStatus `json:"status"`
	FromCallback bool            `json:"fromCallback,omitempty"`
}

func Paid(fromCallback bool) StatusResult {
	return StatusResult{Success: true, Status: StatusPaid, FromCallback: fromCallback}
}

func Pending() StatusResult {
	return StatusResult{Success: false, Status: StatusPending}
}

func StatusFailure() StatusResult {
	return StatusResult{Success: false, Status: StatusError}
}

// CheckoutRequest is the inbound storefront order payload. Every field
// is optional on the wire; Normalize fills the documented fallbacks.
type CheckoutRequest struct {
	Payment struct {
		Amount float64 `json:"amount"`
		ID     string  `json:"id"`
	} `json:"payment"`
	Cart struct {
		Subtotal float64 `json:"subtotal"`
	} `json:"cart"`
	Order struct {
		ID string `json:"id"`
	} `json:"order"`
}

// Checkout is the normalized order: the amount in rubles, the order id
// and the merchant-side payment id actually used for the operation.
type Checkout struct {
	AmountRub float64
	OrderID   string
	PaymentID string
}

// Normalize applies the storefront payload fallback chain: amount from
// payment.amount, else cart.subtotal, else the configured default;
// payment id generated from the current time when absent; order id
// "unknown" when absent.
func (r *CheckoutRequest) Normalize(defaultAmountRub float64, now time.Time) Checkout {
	c := Checkout{
		AmountRub: r.Payment.Amount,
		OrderID:   r.Order.ID,
		PaymentID: r.Payment.ID,
	}
	if c.AmountRub <= 0 {
		c.AmountRub = r.Cart.Subtotal
	}
	if c.AmountRub <= 0 {
		c.AmountRub = defaultAmountRub
	}
	if c.PaymentID == "" {
		c.PaymentID = fmt.Sprintf("creatium_%d", now.UnixMilli())
	}
	if c.OrderID == "" {
		c.OrderID = "unknown"
	}
	return c
}

// MinorUnits converts rubles to kopecks, rounding half away from zero.
func MinorUnits(rub float64) int64 {
	return int64(math.Round(rub * 100))
}

// PaymentPage carries the final, pre-computed values the customer
// payment page is rendered from.
type PaymentPage struct {
	OrderID     string
	OperationID string
	AmountRub   float64
	QRImage     string
	SuccessURL  string
	FailURL     string
}

// CheckoutResult is returned to the storefront after a QR operation was
// created. Form carries the rendered payment page, URL the hosted copy.
type CheckoutResult struct {
	Success     bool    `json:"success"`
	Form        string  `json:"form"`
	URL         string  `json:"url"`
	Amount      float64 `json:"amount"`
	OrderID     string  `json:"order_id"`
	PaymentID   string  `json:"payment_id"`
	OperationID string  `json:"operation_id"`
}
