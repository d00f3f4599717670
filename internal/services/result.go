package services

import (
	apperrors "github.com/anonto42/nano-social/backend/pkg/errors"
)

// Result is the outcome of a profile write. Writes are often triggered by
// identity-provider webhooks, so failures are reported as values, never raised.
type Result struct {
	Success bool           `json:"success"`
	Kind    apperrors.Kind `json:"kind,omitempty"`
	Message string         `json:"message,omitempty"`
}

func succeeded() Result {
	return Result{Success: true}
}

func failed(err error) Result {
	return Result{Success: false, Kind: apperrors.KindOf(err), Message: apperrors.Message(err)}
}

// Err returns the failure as an error, or nil on success
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return apperrors.New(r.Kind, r.Message, nil)
}
