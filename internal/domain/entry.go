package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a ledger entry.
type EntryStatus string

const (
	EntryStatusPosted EntryStatus = "POSTED"
	EntryStatusVoid   EntryStatus = "VOID"
)

// Entry is a single ledger entry (one side of a double-entry posting).
// Entries are append-only: once created the only permitted mutation is the
// POSTED -> VOID status flip. A VOID entry is excluded from every balance but
// retained for audit.
type Entry struct {
	ID             string
	AccountCode    string
	Amount         decimal.Decimal
	Side           Side
	Description    string
	EntryDate      time.Time
	LeaseID        *string
	TransferID     *string
	PostedBy       string
	Status         EntryStatus
	IdempotencyKey string
	CreatedAt      time.Time
}

// EntrySpec describes an entry to be posted. IdempotencyKey is optional; when
// empty the posting engine derives one with DeriveIdempotencyKey.
type EntrySpec struct {
	AccountCode    string
	Amount         decimal.Decimal
	Side           Side
	Description    string
	EntryDate      time.Time
	LeaseID        *string
	TransferID     *string
	PostedBy       string
	IdempotencyKey string
}

// Validate checks the intrinsic constraints of a single entry to post.
func (s *EntrySpec) Validate() error {
	if s.AccountCode == "" {
		return ErrAccountCodeRequired
	}

	if !s.Side.Valid() {
		return ErrInvalidSide
	}

	if err := ValidateAmount(s.Amount); err != nil {
		return err
	}

	return ValidateDescription(s.Description)
}

// Key returns the explicit idempotency key, or the derived one when the
// caller did not supply any.
func (s *EntrySpec) Key() string {
	if s.IdempotencyKey != "" {
		return s.IdempotencyKey
	}

	return DeriveIdempotencyKey(s)
}

// DeriveIdempotencyKey hashes the semantic identity of a posting. Two specs
// with the same account, amount, side, description, lease and entry date map
// to the same key, so a redelivered webhook or a re-run cron batch reuses the
// original entry instead of duplicating it. Callers with genuinely distinct
// operations that share all these fields must pass an explicit key.
func DeriveIdempotencyKey(s *EntrySpec) string {
	leaseID := ""
	if s.LeaseID != nil {
		leaseID = *s.LeaseID
	}

	parts := strings.Join([]string{
		s.AccountCode,
		s.Amount.String(),
		string(s.Side),
		s.Description,
		leaseID,
		s.EntryDate.UTC().Format("2006-01-02"),
	}, "|")

	sum := sha256.Sum256([]byte(parts))

	return hex.EncodeToString(sum[:])
}

// Void flips a posted entry to VOID. Voiding is terminal and the only
// mutation an entry ever sees.
func (e *Entry) Void() error {
	if e.Status != EntryStatusPosted {
		return ErrEntryAlreadyVoid
	}

	e.Status = EntryStatusVoid

	return nil
}

// SignedAmount returns the amount signed by side relative to a DR-normal
// account: debits positive, credits negative.
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.Side == SideDebit {
		return e.Amount
	}

	return e.Amount.Neg()
}
