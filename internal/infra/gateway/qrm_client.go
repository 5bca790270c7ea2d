package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"qr-payment-service/internal/config"
	"qr-payment-service/internal/domain"
	"qr-payment-service/internal/domain/ports/adapter"
	"qr-payment-service/internal/infra/metrics"
)

var _ adapter.QRGateway = (*QRMClient)(nil)

// QRMClient implements QRGateway against the QRM HTTP API using direct calls.
type QRMClient struct {
	baseURL string
	apiKey  string
	purpose string
	qrSize  int
	client  *http.Client
}

// NewQRMClient creates a gateway client from config.
func NewQRMClient(cfg config.GatewayConfig) *QRMClient {
	return &QRMClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		purpose: cfg.PaymentPurpose,
		qrSize:  cfg.QRSize,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// qrCreateRequest is the wire payload for POST /operations/qr-code/.
type qrCreateRequest struct {
	Sum             int64  `json:"sum"`
	QRSize          int    `json:"qr_size"`
	PaymentPurpose  string `json:"payment_purpose"`
	NotificationURL string `json:"notification_url"`
}

// qrCreateResponse represents the response from the QR creation API.
type qrCreateResponse struct {
	Results struct {
		OperationID string `json:"operation_id"`
		QRImage     string `json:"qr_img"`
	} `json:"results"`
}

// qrStatusResponse represents the response from the qr-status API.
type qrStatusResponse struct {
	Results struct {
		OperationStatusCode *int `json:"operation_status_code"`
	} `json:"results"`
}

// CreateQR implements QRGateway.CreateQR.
func (g *QRMClient) CreateQR(ctx context.Context, amountMinor int64, purpose, notificationURL string) (adapter.QROperation, error) {
	start := time.Now()
	op, err := g.createQR(ctx, amountMinor, purpose, notificationURL)
	metrics.ObserveGatewayCall("create_qr", start, err)
	return op, err
}

func (g *QRMClient) createQR(ctx context.Context, amountMinor int64, purpose, notificationURL string) (adapter.QROperation, error) {
	var zero adapter.QROperation
	if amountMinor <= 0 {
		return zero, fmt.Errorf("%w: amount must be positive, got %d", domain.ErrValidation, amountMinor)
	}
	if purpose == "" {
		purpose = g.purpose
	}

	payload := qrCreateRequest{
		Sum:             amountMinor,
		QRSize:          g.qrSize,
		PaymentPurpose:  purpose,
		NotificationURL: notificationURL,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal request data: %w", err)
	}

	url := g.baseURL + "/operations/qr-code/"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%w: failed to send request: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("%w: failed to read response body: %v", domain.ErrGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, fmt.Errorf("%w: qr service returned status %d", domain.ErrGateway, resp.StatusCode)
	}

	var response qrCreateResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return zero, fmt.Errorf("%w: failed to unmarshal response: %v, body: %s", domain.ErrGateway, err, string(body))
	}
	if response.Results.QRImage == "" {
		return zero, fmt.Errorf("%w: qr service returned no qr image", domain.ErrGateway)
	}

	return adapter.QROperation{
		OperationID: response.Results.OperationID,
		QRImage:     response.Results.QRImage,
	}, nil
}

// FetchStatus implements QRGateway.FetchStatus. It returns the raw
// gateway status code; an absent code is reported as 0.
func (g *QRMClient) FetchStatus(ctx context.Context, id string) (int, error) {
	start := time.Now()
	code, err := g.fetchStatus(ctx, id)
	metrics.ObserveGatewayCall("fetch_status", start, err)
	return code, err
}

func (g *QRMClient) fetchStatus(ctx context.Context, id string) (int, error) {
	url := fmt.Sprintf("%s/operations/%s/qr-status/", g.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to send request: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read response body: %v", domain.ErrGateway, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: qr-status returned status %d", domain.ErrGateway, resp.StatusCode)
	}

	var response qrStatusResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("%w: failed to unmarshal response: %v, body: %s", domain.ErrGateway, err, string(body))
	}
	if response.Results.OperationStatusCode == nil {
		return 0, nil
	}
	return *response.Results.OperationStatusCode, nil
}
