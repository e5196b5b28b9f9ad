package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
	"github.com/propledger/propledger/internal/usecase/mocks"
)

type reconFixture struct {
	*ledgerFixture
	recons  *mocks.MockReconciliationRepository
	vendors *mocks.MockVendorRepository
	uc      *usecase.ReconciliationUseCase
}

func newReconFixture(t *testing.T) *reconFixture {
	t.Helper()

	lf := newLedgerFixture(t)

	f := &reconFixture{
		ledgerFixture: lf,
		recons:        mocks.NewMockReconciliationRepository(),
		vendors:       mocks.NewMockVendorRepository(),
	}

	f.uc = usecase.NewReconciliationUseCase(
		mocks.NewMockTransactionManager(),
		f.recons,
		lf.accounts,
		f.vendors,
		lf.uc,
		lf.outbox,
		lf.audits,
		mocks.NewMockIDGenerator(),
	)

	return f
}

func importStatement(t *testing.T, f *reconFixture, amounts ...int64) (*domain.Reconciliation, []*domain.ReconciliationLine) {
	t.Helper()

	lines := make([]domain.LineSpec, len(amounts))
	for i, amount := range amounts {
		lines[i] = domain.LineSpec{
			LineDate:    time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			Description: "STATEMENT LINE",
			Amount:      decimal.NewFromInt(amount),
			Reference:   "ref",
		}
	}

	rec, err := f.uc.ImportStatement(context.Background(), usecase.ImportStatementInput{
		BankAccountID:    "bank-1",
		StartDate:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		StatementBalance: decimal.NewFromInt(10000),
		Lines:            lines,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	stored, err := f.uc.ListLines(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	if len(stored) != len(amounts) {
		t.Fatalf("expected %d lines, got %d", len(amounts), len(stored))
	}

	return rec, stored
}

func paymentInput(rec *domain.Reconciliation, line *domain.ReconciliationLine) usecase.RecordEntryInput {
	return usecase.RecordEntryInput{
		ReconciliationID: rec.ID,
		Type:             usecase.RecordTypePayment,
		LineID:           line.ID,
		Amount:           line.Amount.Abs(),
		Description:      "Rent payment lease-1",
		EntryDate:        line.LineDate,
		LeaseID:          "lease-1",
		RecordedBy:       "manager",
	}
}

func TestReconciliationUseCase_ImportStatement(t *testing.T) {
	f := newReconFixture(t)

	rec, lines := importStatement(t, f, 1200, -300)

	if rec.Status != domain.ReconciliationInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", rec.Status)
	}

	for _, line := range lines {
		if line.Status != domain.LineStatusUnmatched {
			t.Fatalf("line %s not UNMATCHED", line.ID)
		}
	}
}

func TestReconciliationUseCase_RecordPayment(t *testing.T) {
	f := newReconFixture(t)
	rec, lines := importStatement(t, f, 1200)

	result, err := f.uc.RecordEntry(context.Background(), paymentInput(rec, lines[0]))
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	// Payment: DR Operating Cash / CR Accounts Receivable. The line links to
	// the cash side.
	if result.CashEntry.AccountCode != domain.AccountOperatingCash || result.CashEntry.Side != domain.SideDebit {
		t.Fatalf("cash entry wrong: %+v", result.CashEntry)
	}

	if result.Line.Status != domain.LineStatusMatched {
		t.Fatalf("line not matched")
	}
	if result.Line.LedgerEntryID == nil || *result.Line.LedgerEntryID != result.CashEntry.ID {
		t.Fatal("line not linked to cash entry")
	}
	if result.Line.MatchConfidence != domain.MatchConfidenceManual {
		t.Fatalf("confidence = %q, want manual", result.Line.MatchConfidence)
	}

	entries, _ := f.entries.List(context.Background(), usecase.EntryFilter{})
	if len(entries) != 2 {
		t.Fatalf("expected balanced pair, got %d entries", len(entries))
	}
}

func TestReconciliationUseCase_RecordExpenseWithNewVendor(t *testing.T) {
	f := newReconFixture(t)
	rec, lines := importStatement(t, f, -450)

	result, err := f.uc.RecordEntry(context.Background(), usecase.RecordEntryInput{
		ReconciliationID: rec.ID,
		Type:             usecase.RecordTypeExpense,
		LineID:           lines[0].ID,
		Amount:           decimal.NewFromInt(450),
		Description:      "Boiler repair unit 4B",
		EntryDate:        lines[0].LineDate,
		AccountCode:      domain.AccountRepairs,
		NewVendor:        &usecase.NewVendorInput{Name: "Apex Plumbing", Category: "repairs"},
		RecordedBy:       "manager",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	// Expense: DR expense account / CR Operating Cash.
	if result.CashEntry.AccountCode != domain.AccountOperatingCash || result.CashEntry.Side != domain.SideCredit {
		t.Fatalf("cash entry wrong: %+v", result.CashEntry)
	}

	if result.CreatedVendor == nil {
		t.Fatal("expected inline vendor")
	}
	if _, err := f.vendors.GetByID(context.Background(), result.CreatedVendor.ID); err != nil {
		t.Fatalf("vendor not persisted: %v", err)
	}
}

func TestReconciliationUseCase_RecordExpenseWithoutVendor(t *testing.T) {
	f := newReconFixture(t)
	rec, lines := importStatement(t, f, -850)

	result, err := f.uc.RecordEntry(context.Background(), usecase.RecordEntryInput{
		ReconciliationID: rec.ID,
		Type:             usecase.RecordTypeExpense,
		LineID:           lines[0].ID,
		Amount:           decimal.NewFromInt(850),
		Description:      "Roof patch building C",
		EntryDate:        lines[0].LineDate,
		AccountCode:      domain.AccountRepairs,
		RecordedBy:       "manager",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if result.CreatedVendor != nil {
		t.Fatalf("vendor is optional, got %+v", result.CreatedVendor)
	}
	if result.Line.Status != domain.LineStatusMatched {
		t.Fatal("line not matched")
	}

	entries, _ := f.entries.List(context.Background(), usecase.EntryFilter{})
	if len(entries) != 2 {
		t.Fatalf("expected balanced pair, got %d entries", len(entries))
	}
	for _, e := range entries {
		if !e.Amount.Equal(decimal.NewFromInt(850)) {
			t.Fatalf("entry amount = %s, want 850", e.Amount)
		}
		switch e.Side {
		case domain.SideDebit:
			if e.AccountCode != domain.AccountRepairs {
				t.Fatalf("debit account = %s, want %s", e.AccountCode, domain.AccountRepairs)
			}
		case domain.SideCredit:
			if e.AccountCode != domain.AccountOperatingCash {
				t.Fatalf("credit account = %s, want %s", e.AccountCode, domain.AccountOperatingCash)
			}
		}
	}
}

func TestReconciliationUseCase_MixedBatchBalances(t *testing.T) {
	f := newReconFixture(t)
	rec, lines := importStatement(t, f, 3000, 1000, -750)

	for _, in := range []usecase.RecordEntryInput{
		paymentInput(rec, lines[0]),
		paymentInput(rec, lines[1]),
		{
			ReconciliationID: rec.ID,
			Type:             usecase.RecordTypeExpense,
			LineID:           lines[2].ID,
			Amount:           decimal.NewFromInt(750),
			Description:      "Lawn service March",
			EntryDate:        lines[2].LineDate,
			AccountCode:      domain.AccountRepairs,
			RecordedBy:       "manager",
		},
	} {
		if _, err := f.uc.RecordEntry(context.Background(), in); err != nil {
			t.Fatalf("record %s: %v", in.LineID, err)
		}
	}

	stored, err := f.uc.ListLines(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	for _, line := range stored {
		if line.Status != domain.LineStatusMatched {
			t.Fatalf("line %s not matched", line.ID)
		}
	}

	entries, _ := f.entries.List(context.Background(), usecase.EntryFilter{})
	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if e.Side == domain.SideDebit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}
	want := decimal.NewFromInt(4750)
	if !debits.Equal(want) || !credits.Equal(want) {
		t.Fatalf("debits %s / credits %s, want %s each", debits, credits, want)
	}
}

func TestReconciliationUseCase_RecordEntryPreconditionOrder(t *testing.T) {
	f := newReconFixture(t)
	rec, lines := importStatement(t, f, 1200, 800)
	_, otherLines := importStatement(t, f, 500)

	matched := paymentInput(rec, lines[1])
	if _, err := f.uc.RecordEntry(context.Background(), matched); err != nil {
		t.Fatalf("setup match: %v", err)
	}

	finalized, finalizedLines := importStatement(t, f, 100)
	if _, err := f.uc.Finalize(context.Background(), finalized.ID, "manager"); err != nil {
		t.Fatalf("setup finalize: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(in *usecase.RecordEntryInput)
		wantErr error
	}{
		{
			name:    "payment without lease",
			mutate:  func(in *usecase.RecordEntryInput) { in.LeaseID = "" },
			wantErr: domain.ErrLeaseRequired,
		},
		{
			name: "expense without account",
			mutate: func(in *usecase.RecordEntryInput) {
				in.Type = usecase.RecordTypeExpense
				in.AccountCode = ""
			},
			wantErr: domain.ErrExpenseAccountRequired,
		},
		{
			name: "unknown entry type",
			mutate: func(in *usecase.RecordEntryInput) {
				in.Type = "refund"
				// Field errors come first even when everything else is wrong
				// too, so strip the lease to prove type wins.
				in.LeaseID = ""
			},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "reconciliation not found",
			mutate:  func(in *usecase.RecordEntryInput) { in.ReconciliationID = "missing" },
			wantErr: domain.ErrReconciliationNotFound,
		},
		{
			name: "finalized reconciliation",
			mutate: func(in *usecase.RecordEntryInput) {
				in.ReconciliationID = finalized.ID
				in.LineID = finalizedLines[0].ID
			},
			wantErr: domain.ErrReconciliationFinalized,
		},
		{
			name:    "line not found",
			mutate:  func(in *usecase.RecordEntryInput) { in.LineID = "missing" },
			wantErr: domain.ErrLineNotFound,
		},
		{
			name:    "line belongs to another reconciliation",
			mutate:  func(in *usecase.RecordEntryInput) { in.LineID = otherLines[0].ID },
			wantErr: domain.ErrLineMismatch,
		},
		{
			name:    "line already matched",
			mutate:  func(in *usecase.RecordEntryInput) { in.LineID = lines[1].ID },
			wantErr: domain.ErrLineAlreadyMatched,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := paymentInput(rec, lines[0])
			tt.mutate(&in)

			_, err := f.uc.RecordEntry(context.Background(), in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReconciliationUseCase_RecordEntryLosesRaceWithFinalize(t *testing.T) {
	f := newReconFixture(t)
	rec, lines := importStatement(t, f, 1200)

	// Land a finalize while RecordEntry holds the line lock but has not yet
	// re-checked the reconciliation inside its transaction.
	f.recons.GetLineByIDForUpdateFunc = func(ctx context.Context, _ usecase.Transaction, id string) (*domain.ReconciliationLine, error) {
		if _, err := f.uc.Finalize(ctx, rec.ID, "manager"); err != nil {
			t.Fatalf("concurrent finalize: %v", err)
		}
		return f.recons.GetLineByID(ctx, id)
	}

	_, err := f.uc.RecordEntry(context.Background(), paymentInput(rec, lines[0]))
	if !errors.Is(err, domain.ErrReconciliationFinalized) {
		t.Fatalf("expected ErrReconciliationFinalized, got %v", err)
	}

	// The finalized reconciliation gains nothing: no entries, line untouched.
	entries, _ := f.entries.List(context.Background(), usecase.EntryFilter{})
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}

	line, err := f.recons.GetLineByID(context.Background(), lines[0].ID)
	if err != nil {
		t.Fatalf("line lookup: %v", err)
	}
	if line.Status != domain.LineStatusUnmatched {
		t.Fatalf("line no longer UNMATCHED: %s", line.Status)
	}
}

func TestReconciliationUseCase_UnknownExpenseAccountWritesNothing(t *testing.T) {
	f := newReconFixture(t)
	rec, lines := importStatement(t, f, -450)

	_, err := f.uc.RecordEntry(context.Background(), usecase.RecordEntryInput{
		ReconciliationID: rec.ID,
		Type:             usecase.RecordTypeExpense,
		LineID:           lines[0].ID,
		Amount:           decimal.NewFromInt(450),
		Description:      "Boiler repair unit 4B",
		EntryDate:        lines[0].LineDate,
		AccountCode:      "9999",
		NewVendor:        &usecase.NewVendorInput{Name: "Apex Plumbing", Category: "repairs"},
		RecordedBy:       "manager",
	})
	if !errors.Is(err, domain.ErrUnknownAccount) {
		t.Fatalf("expected ErrUnknownAccount, got %v", err)
	}

	// The failed record leaves no trace: no entries, no vendor, line still
	// available for a corrected retry.
	entries, _ := f.entries.List(context.Background(), usecase.EntryFilter{})
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	if f.vendors.Count() != 0 {
		t.Fatalf("vendor created despite failure")
	}

	line, err := f.recons.GetLineByID(context.Background(), lines[0].ID)
	if err != nil {
		t.Fatalf("line lookup: %v", err)
	}
	if line.Status != domain.LineStatusUnmatched {
		t.Fatalf("line no longer UNMATCHED: %s", line.Status)
	}
}

func TestReconciliationUseCase_Finalize(t *testing.T) {
	f := newReconFixture(t)
	rec, _ := importStatement(t, f, 1200)

	finalized, err := f.uc.Finalize(context.Background(), rec.ID, "manager")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if finalized.Status != domain.ReconciliationFinalized {
		t.Fatalf("expected FINALIZED, got %s", finalized.Status)
	}
	if finalized.FinalizedAt == nil || finalized.FinalizedBy != "manager" {
		t.Fatalf("finalize metadata missing: %+v", finalized)
	}

	if _, err := f.uc.Finalize(context.Background(), rec.ID, "manager"); !errors.Is(err, domain.ErrReconciliationFinalized) {
		t.Fatalf("expected ErrReconciliationFinalized, got %v", err)
	}

	if _, err := f.uc.Finalize(context.Background(), "missing", "manager"); !errors.Is(err, domain.ErrReconciliationNotFound) {
		t.Fatalf("expected ErrReconciliationNotFound, got %v", err)
	}
}
