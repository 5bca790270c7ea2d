package adapter

import "context"

// PaidStatusCode is the provider's sole success sentinel: a qr-status
// response carrying operation_status_code == 5 means the operation is
// paid. Every other code, including an absent one, means "not yet paid".
// The value is fixed by the external gateway contract.
const PaidStatusCode = 5

// QROperation is the provider's answer to a QR creation request.
type QROperation struct {
	OperationID string // provider operation id, tracked by the merchant side
	QRImage     string // image reference embedded into the payment page
}

// QRGateway is the hex port for the QR payment provider.
type QRGateway interface {
	// CreateQR registers a payment operation and returns its QR code.
	// amountMinor is in kopecks and must be positive. notificationURL is
	// where the provider posts its asynchronous callback.
	CreateQR(ctx context.Context, amountMinor int64, purpose, notificationURL string) (QROperation, error)

	// FetchStatus returns the provider's raw operation status code for
	// the given id. Read-only. A transport or decode failure is returned
	// as an error and must never be read as "paid".
	FetchStatus(ctx context.Context, id string) (int, error)
}
