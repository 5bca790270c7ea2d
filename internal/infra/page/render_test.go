//go:build !integration

package page

import (
	"strings"
	"testing"

	"qr-payment-service/internal/domain/model"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	in := model.PaymentPage{
		OrderID:     "o-42",
		OperationID: "op-123",
		AmountRub:   99.5,
		QRImage:     "https://qr.example/img.png",
		SuccessURL:  "https://shop.example.com/ok?a=1&b=2",
		FailURL:     "https://shop.example.com/fail",
	}

	html, err := r.Render(in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Заказ #o-42",
		"99.5 ₽",
		`src="https://qr.example/img.png"`,
		"/api/check-status",
		"setInterval(checkPaymentStatus, 3000)",
		"}, 1000)",
		"let minutesLeft = 5;",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}

	// The redirect URLs are embedded as JS strings, query intact.
	if !strings.Contains(html, "shop.example.com/ok") {
		t.Error("success url missing from page")
	}
	if !strings.Contains(html, "shop.example.com/fail") {
		t.Error("fail url missing from page")
	}
}

func TestRenderer_EscapesUntrustedIDs(t *testing.T) {
	r := NewRenderer()

	in := model.PaymentPage{
		OrderID:     `<script>alert(1)</script>`,
		OperationID: "op-1",
		AmountRub:   10,
		QRImage:     "https://qr.example/img.png",
		SuccessURL:  "https://shop.example.com/ok",
		FailURL:     "https://shop.example.com/fail",
	}

	html, err := r.Render(in)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("order id must be escaped")
	}
}

func TestErrorPage(t *testing.T) {
	html := ErrorPage("QR service error: 502")
	if !strings.Contains(html, "QR service error: 502") {
		t.Errorf("unexpected error page %q", html)
	}
	if !strings.HasPrefix(html, "<html>") {
		t.Errorf("unexpected markup %q", html)
	}
}
