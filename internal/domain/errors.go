package domain

import "errors"

var (
	// Validation errors: rejected before any write.
	ErrValidation             = errors.New("validation failed")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidSide            = errors.New("side must be DR or CR")
	ErrInvalidAccountType     = errors.New("unknown account type")
	ErrAccountCodeRequired    = errors.New("account code is required")
	ErrLeaseRequired          = errors.New("lease id is required for a payment")
	ErrExpenseAccountRequired = errors.New("account code is required for an expense")
	ErrUnbalancedPair         = errors.New("debit and credit amounts must match")

	// Not-found errors.
	ErrUnknownAccount         = errors.New("account code not in chart of accounts")
	ErrEntryNotFound          = errors.New("ledger entry not found")
	ErrTransferNotFound       = errors.New("transfer not found")
	ErrReconciliationNotFound = errors.New("reconciliation not found")
	ErrLineNotFound           = errors.New("reconciliation line not found")
	ErrVendorNotFound         = errors.New("vendor not found")
	ErrAccountAlreadyExists   = errors.New("account code already exists")

	// Mismatch: referenced entities exist but do not belong together.
	ErrLineMismatch = errors.New("line does not belong to reconciliation")

	// Invalid-state errors: not retryable without operator action.
	ErrEntryAlreadyVoid        = errors.New("entry is not posted")
	ErrTransferNotPending      = errors.New("transfer is not pending")
	ErrReconciliationFinalized = errors.New("finalized reconciliations are immutable")
	ErrLineAlreadyMatched      = errors.New("line is already matched")
	ErrAccountInactive         = errors.New("account is deactivated")
)
