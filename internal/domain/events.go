package domain

import "time"

// Event types
const (
	EventTypeEntryPosted             = "entry.posted"
	EventTypeEntryVoided             = "entry.voided"
	EventTypeTransferInitiated       = "transfer.initiated"
	EventTypeTransferSettled         = "transfer.settled"
	EventTypeTransferReversed        = "transfer.reversed"
	EventTypeLineMatched             = "reconciliation.line_matched"
	EventTypeReconciliationFinalized = "reconciliation.finalized"
)

// Aggregate types
const (
	AggregateTypeEntry          = "entry"
	AggregateTypeTransfer       = "transfer"
	AggregateTypeReconciliation = "reconciliation"
	AggregateTypeAccount        = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// EntryPostedEvent payload
type EntryPostedEvent struct {
	EntryID     string `json:"entry_id"`
	AccountCode string `json:"account_code"`
	Side        string `json:"side"`
	Amount      string `json:"amount"`
	LeaseID     string `json:"lease_id,omitempty"`
	EntryDate   string `json:"entry_date"`
}

// EntryVoidedEvent payload
type EntryVoidedEvent struct {
	EntryID     string `json:"entry_id"`
	AccountCode string `json:"account_code"`
	Amount      string `json:"amount"`
	VoidedBy    string `json:"voided_by"`
}

// TransferSettledEvent payload covers initiate, settle and reverse; Status
// carries the resulting transfer state.
type TransferSettledEvent struct {
	TransferID string `json:"transfer_id"`
	LeaseID    string `json:"lease_id"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
}

// LineMatchedEvent payload
type LineMatchedEvent struct {
	ReconciliationID string `json:"reconciliation_id"`
	LineID           string `json:"line_id"`
	LedgerEntryID    string `json:"ledger_entry_id"`
	MatchConfidence  string `json:"match_confidence"`
}

// ReconciliationFinalizedEvent payload
type ReconciliationFinalizedEvent struct {
	ReconciliationID string `json:"reconciliation_id"`
	BankAccountID    string `json:"bank_account_id"`
	FinalizedBy      string `json:"finalized_by"`
}
