package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func pendingTransfer() *Transfer {
	return &Transfer{
		ID:          "tr-1",
		LeaseID:     "lease-1",
		Amount:      decimal.NewFromInt(2500),
		Status:      TransferStatusPending,
		InitiatedAt: time.Now().UTC(),
	}
}

func TestTransfer_Validate(t *testing.T) {
	if err := pendingTransfer().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noLease := pendingTransfer()
	noLease.LeaseID = ""
	if err := noLease.Validate(); !errors.Is(err, ErrLeaseRequired) {
		t.Fatalf("expected ErrLeaseRequired, got %v", err)
	}

	zero := pendingTransfer()
	zero.Amount = decimal.Zero
	if err := zero.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransfer_Settle(t *testing.T) {
	now := time.Now().UTC()

	tr := pendingTransfer()
	if err := tr.Settle(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Status != TransferStatusSettled {
		t.Errorf("expected SETTLED, got %s", tr.Status)
	}
	if tr.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}

	// Settled is terminal
	if err := tr.Settle(now); !errors.Is(err, ErrTransferNotPending) {
		t.Fatalf("expected ErrTransferNotPending, got %v", err)
	}
	if err := tr.Reverse(now); !errors.Is(err, ErrTransferNotPending) {
		t.Fatalf("expected ErrTransferNotPending, got %v", err)
	}
}

func TestTransfer_Reverse(t *testing.T) {
	now := time.Now().UTC()

	tr := pendingTransfer()
	if err := tr.Reverse(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Status != TransferStatusReversed {
		t.Errorf("expected REVERSED, got %s", tr.Status)
	}

	if err := tr.Settle(now); !errors.Is(err, ErrTransferNotPending) {
		t.Fatalf("expected ErrTransferNotPending after reversal, got %v", err)
	}
}

func TestReconciliation_Finalize(t *testing.T) {
	now := time.Now().UTC()

	rec := &Reconciliation{ID: "rec-1", Status: ReconciliationInProgress}
	if err := rec.Finalize("ops", now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Status != ReconciliationFinalized || rec.FinalizedBy != "ops" {
		t.Errorf("unexpected state after finalize: %+v", rec)
	}

	if err := rec.Finalize("ops", now); !errors.Is(err, ErrReconciliationFinalized) {
		t.Fatalf("expected ErrReconciliationFinalized, got %v", err)
	}
}

func TestReconciliationLine_Match(t *testing.T) {
	now := time.Now().UTC()

	line := &ReconciliationLine{ID: "line-1", Status: LineStatusUnmatched}
	if err := line.Match("entry-1", MatchConfidenceManual, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line.Status != LineStatusMatched {
		t.Errorf("expected MATCHED, got %s", line.Status)
	}
	if line.LedgerEntryID == nil || *line.LedgerEntryID != "entry-1" {
		t.Error("expected ledger entry link")
	}
	if line.MatchConfidence != MatchConfidenceManual {
		t.Errorf("expected manual confidence, got %s", line.MatchConfidence)
	}

	if err := line.Match("entry-2", MatchConfidenceManual, now); !errors.Is(err, ErrLineAlreadyMatched) {
		t.Fatalf("expected ErrLineAlreadyMatched, got %v", err)
	}
}
