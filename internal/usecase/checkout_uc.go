// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"qr-payment-service/internal/config"
	"qr-payment-service/internal/domain/model"
	"qr-payment-service/internal/domain/ports/adapter"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// Create handles a storefront order: registers a QR operation with
	// the gateway and returns the rendered payment page plus the ids and
	// URLs the storefront needs.
	Create(ctx context.Context, req model.CheckoutRequest) (model.CheckoutResult, error)
	// PageFor serves the hosted GET path: re-creates a QR for the given
	// parameters, keeping the operation id from the query, and returns
	// the rendered page.
	PageFor(ctx context.Context, amountRub float64, orderID, operationID string) (string, error)
	// TestPage renders a payment page for the configured default amount.
	TestPage(ctx context.Context) (string, error)
}

type checkoutUC struct {
	gw       adapter.QRGateway
	renderer adapter.PageRenderer
	urls     config.URLConfig
	purpose  string
	defAmt   float64
	log      *zerolog.Logger
	now      func() time.Time
}

func NewCheckoutUseCase(gw adapter.QRGateway, renderer adapter.PageRenderer, urls config.URLConfig, purpose string, defaultAmountRub float64, logger *zerolog.Logger) *checkoutUC {
	return &checkoutUC{
		gw:       gw,
		renderer: renderer,
		urls:     urls,
		purpose:  purpose,
		defAmt:   defaultAmountRub,
		log:      logger,
		now:      time.Now,
	}
}

func (u *checkoutUC) Create(ctx context.Context, req model.CheckoutRequest) (model.CheckoutResult, error) {
	co := req.Normalize(u.defAmt, u.now())

	op, err := u.gw.CreateQR(ctx, model.MinorUnits(co.AmountRub), u.purpose, u.notificationURL(co.OrderID, co.PaymentID))
	if err != nil {
		return model.CheckoutResult{}, fmt.Errorf("qr creation failed: %w", err)
	}

	// The gateway may not echo an operation id; the merchant payment id
	// then doubles as the operation id for later status polls.
	operationID := op.OperationID
	if operationID == "" {
		operationID = co.PaymentID
	}
	u.log.Info().
		Str("order_id", co.OrderID).
		Str("operation_id", operationID).
		Float64("amount_rub", co.AmountRub).
		Msg("qr operation created")

	form, err := u.renderer.Render(model.PaymentPage{
		OrderID:     co.OrderID,
		OperationID: operationID,
		AmountRub:   co.AmountRub,
		QRImage:     op.QRImage,
		SuccessURL:  u.successURL(co.OrderID, co.PaymentID, operationID),
		FailURL:     u.failURL(co.OrderID),
	})
	if err != nil {
		return model.CheckoutResult{}, err
	}

	return model.CheckoutResult{
		Success:     true,
		Form:        form,
		URL:         u.hostedPageURL(co.AmountRub, co.OrderID, operationID),
		Amount:      co.AmountRub,
		OrderID:     co.OrderID,
		PaymentID:   co.PaymentID,
		OperationID: operationID,
	}, nil
}

func (u *checkoutUC) PageFor(ctx context.Context, amountRub float64, orderID, operationID string) (string, error) {
	op, err := u.gw.CreateQR(ctx, model.MinorUnits(amountRub), u.purpose, u.notificationURL(orderID, operationID))
	if err != nil {
		return "", fmt.Errorf("qr creation failed: %w", err)
	}

	return u.renderer.Render(model.PaymentPage{
		OrderID:     orderID,
		OperationID: operationID,
		AmountRub:   amountRub,
		QRImage:     op.QRImage,
		SuccessURL:  u.successURL(orderID, operationID, operationID),
		FailURL:     u.failURL(orderID),
	})
}

func (u *checkoutUC) TestPage(ctx context.Context) (string, error) {
	amount := u.defAmt
	op, err := u.gw.CreateQR(ctx, model.MinorUnits(amount), u.purpose, u.urls.PublicBase+"/api/callback")
	if err != nil {
		return "", fmt.Errorf("qr creation failed: %w", err)
	}

	operationID := op.OperationID
	if operationID == "" {
		operationID = fmt.Sprintf("test_%d", u.now().UnixMilli())
	}

	return u.renderer.Render(model.PaymentPage{
		OrderID:     "test",
		OperationID: operationID,
		AmountRub:   amount,
		QRImage:     op.QRImage,
		SuccessURL:  u.successURL("test", operationID, operationID),
		FailURL:     u.failURL("test"),
	})
}

// notificationURL is where the gateway posts its asynchronous callback.
// The operation_id query parameter lets the callback handler correlate
// the notification with the original operation.
func (u *checkoutUC) notificationURL(orderID, operationID string) string {
	return fmt.Sprintf("%s/api/callback?order_id=%s&operation_id=%s",
		u.urls.PublicBase, url.QueryEscape(orderID), url.QueryEscape(operationID))
}

func (u *checkoutUC) successURL(orderID, paymentID, operationID string) string {
	q := url.Values{}
	q.Set("order_id", orderID)
	if paymentID == operationID {
		q.Set("operation_id", operationID)
	} else {
		q.Set("payment_id", paymentID)
	}
	q.Set("status", "success")
	q.Set("paid", "true")
	return u.urls.SuccessBase + "?" + q.Encode()
}

func (u *checkoutUC) failURL(orderID string) string {
	q := url.Values{}
	q.Set("order_id", orderID)
	q.Set("status", "failed")
	q.Set("paid", "false")
	return u.urls.FailBase + "?" + q.Encode()
}

func (u *checkoutUC) hostedPageURL(amountRub float64, orderID, operationID string) string {
	q := url.Values{}
	q.Set("sum", fmt.Sprintf("%g", amountRub))
	q.Set("order_id", orderID)
	q.Set("operation_id", operationID)
	return u.urls.PublicBase + "/?" + q.Encode()
}
