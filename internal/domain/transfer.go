package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a cash-in-transit transfer.
type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "PENDING"
	TransferStatusSettled  TransferStatus = "SETTLED"
	TransferStatusReversed TransferStatus = "REVERSED"
)

// Transfer models a multi-step payment settlement (ACH and similar). While
// funds are in flight the amount sits on the Cash in Transit account; the
// settle and reverse steps each post the balancing credit to transit, so a
// transfer never ends with an unmatched transit debit.
type Transfer struct {
	ID          string
	LeaseID     string
	Amount      decimal.Decimal
	Reference   string
	Status      TransferStatus
	InitiatedBy string
	InitiatedAt time.Time
	CompletedAt *time.Time
}

// Validate validates a transfer request.
func (t *Transfer) Validate() error {
	if t.LeaseID == "" {
		return ErrLeaseRequired
	}

	return ValidateAmount(t.Amount)
}

// Settle marks the transfer settled. Only a pending transfer can settle.
func (t *Transfer) Settle(at time.Time) error {
	if t.Status != TransferStatusPending {
		return ErrTransferNotPending
	}

	t.Status = TransferStatusSettled
	t.CompletedAt = &at

	return nil
}

// Reverse marks the transfer reversed. Only a pending transfer can reverse.
func (t *Transfer) Reverse(at time.Time) error {
	if t.Status != TransferStatusPending {
		return ErrTransferNotPending
	}

	t.Status = TransferStatusReversed
	t.CompletedAt = &at

	return nil
}
