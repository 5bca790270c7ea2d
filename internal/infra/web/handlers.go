package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"qr-payment-service/internal/domain/model"
	"qr-payment-service/internal/infra/logging"
	"qr-payment-service/internal/infra/metrics"
	"qr-payment-service/internal/infra/page"
)

// CallbackRecorder is the slice of the mapping store the callback
// handler needs.
type CallbackRecorder interface {
	Record(ctx context.Context, operationID, callbackID string) error
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleCheckout accepts the storefront order webhook. Failures answer
// HTTP 200 with success:false; the storefront integration only inspects
// the body.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("invalid storefront payload")
		metrics.IncCheckout("failed")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "invalid JSON payload",
		})
		return
	}

	result, err := s.checkoutUC.Create(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("checkout failed")
		metrics.IncCheckout("failed")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	metrics.IncCheckout("created")
	writeJSON(w, http.StatusOK, result)
}

// handlePage serves the hosted payment page. With sum/order_id/
// operation_id query parameters it renders the page for that operation;
// without them it renders a test page with the default amount. Errors
// surface as an inline HTML message, still with HTTP 200.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	q := r.URL.Query()
	sum := q.Get("sum")
	orderID := q.Get("order_id")
	operationID := q.Get("operation_id")

	var html string
	var err error
	if sum != "" && orderID != "" && operationID != "" {
		var amount float64
		amount, err = strconv.ParseFloat(sum, 64)
		if err == nil {
			html, err = s.checkoutUC.PageFor(ctx, amount, orderID, operationID)
		}
	} else {
		html, err = s.checkoutUC.TestPage(ctx)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err != nil {
		log.Error().Err(err).Msg("payment page failed")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(page.ErrorPage(err.Error())))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// callbackBody is the subset of the gateway notification we use. The
// gateway sends more fields; only the assigned id matters here.
type callbackBody struct {
	ID string `json:"id"`
}

// handleCallback records the gateway-assigned callback id against the
// operation id from the query string. It always acknowledges with 200:
// a non-success answer would make the gateway retry the notification.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	operationID := r.URL.Query().Get("operation_id")

	var body callbackBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Warn().Err(err).Msg("callback JSON parse error")
	}

	if body.ID == "" || operationID == "" {
		log.Warn().Str("operation_id", operationID).Msg("callback missing ids, ignored")
		metrics.IncCallback("ignored")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "callback received",
		})
		return
	}

	if err := s.recorder.Record(ctx, operationID, body.ID); err != nil {
		log.Error().Err(err).Str("operation_id", operationID).Msg("failed to save payment mapping")
		metrics.IncCallback("ignored")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   "failed to save mapping",
		})
		return
	}

	log.Info().Str("operation_id", operationID).Str("callback_id", body.ID).Msg("payment mapping saved")
	metrics.IncCallback("recorded")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "callback received",
	})
}

type checkStatusRequest struct {
	OperationID string `json:"operationId"`
}

// handleCheckStatus resolves the payment status for the browser poll.
func (s *Server) handleCheckStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	var req checkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "invalid JSON payload",
		})
		return
	}
	if req.OperationID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Operation ID required",
		})
		return
	}

	result := s.statusUC.Check(ctx, req.OperationID)
	metrics.IncStatusCheck(string(result.Status))
	if result.Status == model.StatusPaid && result.FromCallback {
		metrics.IncPaidViaCallback()
	}

	log.Debug().Str("operation_id", req.OperationID).Str("status", string(result.Status)).Msg("status check")
	writeJSON(w, http.StatusOK, result)
}
