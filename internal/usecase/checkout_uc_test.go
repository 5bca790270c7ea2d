//go:build !integration

package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"qr-payment-service/internal/config"
	"qr-payment-service/internal/domain/model"
	"qr-payment-service/internal/domain/ports/adapter"
	"qr-payment-service/internal/usecase"
)

func testURLs() config.URLConfig {
	return config.URLConfig{
		PublicBase:  "https://pay.example.com",
		SuccessBase: "https://shop.example.com/payment-success",
		FailBase:    "https://shop.example.com/payment-failed",
	}
}

func TestCheckoutUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("converts rubles to minor units with rounding", func(t *testing.T) {
		// --- Arrange ---
		gw := &mockGateway{}
		var gotAmount int64
		gw.CreateQRFunc = func(ctx context.Context, amountMinor int64, purpose, notificationURL string) (adapter.QROperation, error) {
			gotAmount = amountMinor
			return adapter.QROperation{OperationID: "op-1", QRImage: "https://qr.example/img.png"}, nil
		}
		renderer := &mockRenderer{}
		uc := usecase.NewCheckoutUseCase(gw, renderer, testURLs(), "payment", 100, newTestLogger())

		var req model.CheckoutRequest
		if err := json.Unmarshal([]byte(`{"payment":{"amount":99.5,"id":"pay-1"},"order":{"id":"o-1"}}`), &req); err != nil {
			t.Fatal(err)
		}

		// --- Act ---
		res, err := uc.Create(ctx, req)

		// --- Assert ---
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotAmount != 9950 {
			t.Errorf("expected 9950 kopecks, got %d", gotAmount)
		}
		if res.Amount != 99.5 {
			t.Errorf("expected amount 99.5, got %v", res.Amount)
		}
		if res.OperationID != "op-1" {
			t.Errorf("expected gateway operation id, got %q", res.OperationID)
		}
	})

	t.Run("falls back to cart subtotal and synthesized ids", func(t *testing.T) {
		gw := &mockGateway{}
		var gotAmount int64
		gw.CreateQRFunc = func(ctx context.Context, amountMinor int64, purpose, notificationURL string) (adapter.QROperation, error) {
			gotAmount = amountMinor
			return adapter.QROperation{QRImage: "https://qr.example/img.png"}, nil
		}
		renderer := &mockRenderer{}
		uc := usecase.NewCheckoutUseCase(gw, renderer, testURLs(), "payment", 100, newTestLogger())

		var req model.CheckoutRequest
		if err := json.Unmarshal([]byte(`{"cart":{"subtotal":250}}`), &req); err != nil {
			t.Fatal(err)
		}

		res, err := uc.Create(ctx, req)

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotAmount != 25000 {
			t.Errorf("expected 25000 kopecks, got %d", gotAmount)
		}
		if res.OrderID != "unknown" {
			t.Errorf("expected order id fallback, got %q", res.OrderID)
		}
		if !strings.HasPrefix(res.PaymentID, "creatium_") {
			t.Errorf("expected synthesized payment id, got %q", res.PaymentID)
		}
		// No gateway operation id: the merchant payment id doubles as
		// the operation id.
		if res.OperationID != res.PaymentID {
			t.Errorf("expected operation id %q, got %q", res.PaymentID, res.OperationID)
		}
	})

	t.Run("notification url carries order and operation ids", func(t *testing.T) {
		gw := &mockGateway{}
		var gotURL string
		gw.CreateQRFunc = func(ctx context.Context, amountMinor int64, purpose, notificationURL string) (adapter.QROperation, error) {
			gotURL = notificationURL
			return adapter.QROperation{OperationID: "op-1", QRImage: "img"}, nil
		}
		renderer := &mockRenderer{}
		uc := usecase.NewCheckoutUseCase(gw, renderer, testURLs(), "payment", 100, newTestLogger())

		var req model.CheckoutRequest
		if err := json.Unmarshal([]byte(`{"payment":{"amount":10,"id":"pay-1"},"order":{"id":"o-1"}}`), &req); err != nil {
			t.Fatal(err)
		}

		if _, err := uc.Create(ctx, req); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := "https://pay.example.com/api/callback?order_id=o-1&operation_id=pay-1"
		if gotURL != want {
			t.Errorf("expected notification url %q, got %q", want, gotURL)
		}
	})

	t.Run("redirect urls reach the renderer", func(t *testing.T) {
		gw := &mockGateway{}
		renderer := &mockRenderer{}
		uc := usecase.NewCheckoutUseCase(gw, renderer, testURLs(), "payment", 100, newTestLogger())

		var req model.CheckoutRequest
		if err := json.Unmarshal([]byte(`{"payment":{"amount":10,"id":"pay-1"},"order":{"id":"o-1"}}`), &req); err != nil {
			t.Fatal(err)
		}

		if _, err := uc.Create(ctx, req); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.HasPrefix(renderer.last.SuccessURL, "https://shop.example.com/payment-success?") {
			t.Errorf("unexpected success url %q", renderer.last.SuccessURL)
		}
		if !strings.Contains(renderer.last.SuccessURL, "status=success") || !strings.Contains(renderer.last.SuccessURL, "paid=true") {
			t.Errorf("success url missing markers: %q", renderer.last.SuccessURL)
		}
		if !strings.HasPrefix(renderer.last.FailURL, "https://shop.example.com/payment-failed?") {
			t.Errorf("unexpected fail url %q", renderer.last.FailURL)
		}
		if !strings.Contains(renderer.last.FailURL, "paid=false") {
			t.Errorf("fail url missing markers: %q", renderer.last.FailURL)
		}
	})

	t.Run("gateway failure is propagated", func(t *testing.T) {
		gw := &mockGateway{}
		gw.CreateQRFunc = func(ctx context.Context, amountMinor int64, purpose, notificationURL string) (adapter.QROperation, error) {
			return adapter.QROperation{}, errors.New("qr service returned status 500")
		}
		renderer := &mockRenderer{}
		uc := usecase.NewCheckoutUseCase(gw, renderer, testURLs(), "payment", 100, newTestLogger())

		var req model.CheckoutRequest
		if err := json.Unmarshal([]byte(`{"payment":{"amount":10,"id":"pay-1"}}`), &req); err != nil {
			t.Fatal(err)
		}

		_, err := uc.Create(ctx, req)

		if err == nil {
			t.Fatal("expected an error, got nil")
		}
		if !strings.Contains(err.Error(), "qr creation failed") {
			t.Errorf("expected wrapped qr creation error, got %v", err)
		}
	})
}

func TestCheckoutUseCase_PageFor(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps the operation id from the query", func(t *testing.T) {
		gw := &mockGateway{}
		gw.CreateQRFunc = func(ctx context.Context, amountMinor int64, purpose, notificationURL string) (adapter.QROperation, error) {
			// Gateway issues a fresh id, but the page must keep polling
			// the id the customer arrived with.
			return adapter.QROperation{OperationID: "fresh-op", QRImage: "img"}, nil
		}
		renderer := &mockRenderer{}
		uc := usecase.NewCheckoutUseCase(gw, renderer, testURLs(), "payment", 100, newTestLogger())

		html, err := uc.PageFor(ctx, 42.5, "o-9", "op-original")

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if html == "" {
			t.Error("expected rendered page")
		}
		if renderer.last.OperationID != "op-original" {
			t.Errorf("expected op-original, got %q", renderer.last.OperationID)
		}
		if renderer.last.AmountRub != 42.5 {
			t.Errorf("expected amount 42.5, got %v", renderer.last.AmountRub)
		}
	})
}
