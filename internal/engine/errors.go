package engine

import (
	"errors"
	"fmt"
)

// DepositErrorCode categorizes a rejected deposit.
type DepositErrorCode string

const (
	// ErrCodeNonPositiveAmount indicates a zero or negative amount.
	ErrCodeNonPositiveAmount DepositErrorCode = "NON_POSITIVE_AMOUNT"

	// ErrCodeBelowMinimum indicates an amount under the vault's minDeposit.
	ErrCodeBelowMinimum DepositErrorCode = "BELOW_MINIMUM"

	// ErrCodeTVLCapExceeded indicates the deposit would push TVL past tvlCap.
	ErrCodeTVLCapExceeded DepositErrorCode = "TVL_CAP_EXCEEDED"

	// ErrCodeVaultInactive indicates the vault is not accepting deposits.
	ErrCodeVaultInactive DepositErrorCode = "VAULT_INACTIVE"
)

// DepositError is returned by CheckDeposit.
type DepositError struct {
	Code      DepositErrorCode
	VaultSlug string
	Amount    float64
	Message   string
}

func newDepositError(code DepositErrorCode, slug string, amount float64, msg string) *DepositError {
	return &DepositError{Code: code, VaultSlug: slug, Amount: amount, Message: msg}
}

// Error implements the error interface.
func (e *DepositError) Error() string {
	return fmt.Sprintf("%s: %s (vault=%s, amount=%g)", e.Code, e.Message, e.VaultSlug, e.Amount)
}

// IsDepositError reports whether err is a DepositError with the given code.
// Uses errors.As to handle wrapped errors.
func IsDepositError(err error, code DepositErrorCode) bool {
	var de *DepositError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
