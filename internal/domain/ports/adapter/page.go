package adapter

import "qr-payment-service/internal/domain/model"

// PageRenderer owns presentation of the standalone payment page. It
// receives final, pre-computed inputs and returns the rendered HTML.
type PageRenderer interface {
	Render(page model.PaymentPage) (string, error)
}
