package repository

import "context"

// -----------------------------
// Payment id mappings
// -----------------------------

// MappingRepository stores the correspondence between the operation id
// the merchant tracks and the callback id the gateway assigns to the
// same logical payment in its asynchronous notification.
type MappingRepository interface {
	// Record is an unconditional upsert; the last write wins.
	Record(ctx context.Context, operationID, callbackID string) error
	// Lookup returns the callback id for an operation id, if one has
	// arrived and has not expired.
	Lookup(ctx context.Context, operationID string) (string, bool, error)
}
