package asset

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientApproval = errors.New("insufficient approval")
	ErrUnauthorizedMinter   = errors.New("unauthorized minter")
)

// TransferError is returned when a token rejects an operation.
// The whole calling operation must be aborted when it is seen.
type TransferError struct {
	Symbol string
	Op     string
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s %s rejected: %v", e.Symbol, e.Op, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

func IsTransferError(err error) bool {
	if err == nil {
		return false
	}
	var te *TransferError
	return errors.As(err, &te)
}
