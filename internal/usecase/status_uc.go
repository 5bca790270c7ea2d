// File: internal/usecase/status_uc.go
package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"qr-payment-service/internal/domain/model"
	"qr-payment-service/internal/domain/ports/adapter"
	"qr-payment-service/internal/domain/ports/repository"
)

// Compile-time check
var _ StatusUseCase = (*statusUC)(nil)

type StatusUseCase interface {
	// Check resolves the payment status for an operation id. It never
	// returns a Go error: transport failures surface as a StatusError
	// result so the caller always holds a well-formed answer.
	Check(ctx context.Context, operationID string) model.StatusResult
}

// resolveStrategy tries one way of proving the operation is paid.
// It returns (result, true) when it resolved the status conclusively,
// in which case the chain stops.
type resolveStrategy func(ctx context.Context, operationID string) (model.StatusResult, bool)

// statusUC reconciles the merchant-side operation id with the
// gateway-side callback id. The gateway may assign a different internal
// id to a transaction than the one used to create it; the callback
// mapping bridges the two, but a fallback to the original id keeps the
// check correct when no callback has arrived or the mapping is stale.
type statusUC struct {
	mappings repository.MappingRepository
	gw       adapter.QRGateway
	chain    []resolveStrategy
	log      *zerolog.Logger
}

func NewStatusUseCase(mappings repository.MappingRepository, gw adapter.QRGateway, logger *zerolog.Logger) *statusUC {
	uc := &statusUC{mappings: mappings, gw: gw, log: logger}
	// Ordered resolution chain: the callback mapping first, then the
	// original operation id directly. First conclusive answer wins.
	uc.chain = []resolveStrategy{
		uc.resolveViaCallback,
		uc.resolveDirect,
	}
	return uc
}

func (u *statusUC) Check(ctx context.Context, operationID string) model.StatusResult {
	for _, resolve := range u.chain {
		if res, ok := resolve(ctx, operationID); ok {
			return res
		}
	}
	return model.Pending()
}

// resolveViaCallback consults the mapping store and, when a callback id
// is known, asks the gateway about it. A paid answer short-circuits the
// chain; a not-paid answer falls through to the direct check. A gateway
// failure resolves to StatusError immediately (fail closed). A mapping
// store failure only degrades to the direct strategy.
func (u *statusUC) resolveViaCallback(ctx context.Context, operationID string) (model.StatusResult, bool) {
	callbackID, ok, err := u.mappings.Lookup(ctx, operationID)
	if err != nil {
		u.log.Warn().Err(err).Str("operation_id", operationID).Msg("mapping lookup failed; falling back to direct check")
		return model.StatusResult{}, false
	}
	if !ok {
		return model.StatusResult{}, false
	}

	u.log.Debug().Str("operation_id", operationID).Str("callback_id", callbackID).Msg("found callback mapping")
	code, err := u.gw.FetchStatus(ctx, callbackID)
	if err != nil {
		u.log.Error().Err(err).Str("callback_id", callbackID).Msg("status check by callback id failed")
		return model.StatusFailure(), true
	}
	if code == adapter.PaidStatusCode {
		u.log.Info().Str("operation_id", operationID).Str("callback_id", callbackID).Msg("payment confirmed via callback id")
		return model.Paid(true), true
	}
	return model.StatusResult{}, false
}

// resolveDirect asks the gateway about the original operation id.
func (u *statusUC) resolveDirect(ctx context.Context, operationID string) (model.StatusResult, bool) {
	code, err := u.gw.FetchStatus(ctx, operationID)
	if err != nil {
		u.log.Error().Err(err).Str("operation_id", operationID).Msg("status check failed")
		return model.StatusFailure(), true
	}
	if code == adapter.PaidStatusCode {
		u.log.Info().Str("operation_id", operationID).Msg("payment confirmed")
		return model.Paid(false), true
	}
	return model.StatusResult{}, false
}
