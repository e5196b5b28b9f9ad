package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the lifecycle state of a bank reconciliation.
type ReconciliationStatus string

const (
	ReconciliationInProgress ReconciliationStatus = "IN_PROGRESS"
	ReconciliationFinalized  ReconciliationStatus = "FINALIZED"
)

// LineStatus is the matching state of one statement line.
type LineStatus string

const (
	LineStatusUnmatched LineStatus = "UNMATCHED"
	LineStatusMatched   LineStatus = "MATCHED"
)

// MatchConfidenceManual marks a line matched by an operator through
// RecordEntry rather than by an automatic matcher.
const MatchConfidenceManual = "manual"

// Reconciliation is one imported bank statement being reconciled against the
// ledger. Once finalized it is immutable: no line may change.
type Reconciliation struct {
	ID               string
	BankAccountID    string
	StartDate        time.Time
	EndDate          time.Time
	StatementBalance decimal.Decimal
	Status           ReconciliationStatus
	FinalizedAt      *time.Time
	FinalizedBy      string
	CreatedAt        time.Time
}

// Finalize transitions the reconciliation to its terminal state.
func (r *Reconciliation) Finalize(by string, at time.Time) error {
	if r.Status != ReconciliationInProgress {
		return ErrReconciliationFinalized
	}

	r.Status = ReconciliationFinalized
	r.FinalizedAt = &at
	r.FinalizedBy = by

	return nil
}

// ReconciliationLine is one row of an imported bank statement. Amount is
// signed: positive for deposits, negative for withdrawals. A line transitions
// UNMATCHED -> MATCHED exactly once.
type ReconciliationLine struct {
	ID               string
	ReconciliationID string
	LineDate         time.Time
	Description      string
	Amount           decimal.Decimal
	Reference        string
	Status           LineStatus
	LedgerEntryID    *string
	MatchedAt        *time.Time
	MatchConfidence  string
	CreatedAt        time.Time
}

// Match links the line to a ledger entry and marks it matched.
func (l *ReconciliationLine) Match(ledgerEntryID, confidence string, at time.Time) error {
	if l.Status != LineStatusUnmatched {
		return ErrLineAlreadyMatched
	}

	l.Status = LineStatusMatched
	l.LedgerEntryID = &ledgerEntryID
	l.MatchedAt = &at
	l.MatchConfidence = confidence

	return nil
}

// LineSpec describes a statement line to import.
type LineSpec struct {
	LineDate    time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
}
