package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/domain"
)

// Entry types accepted by RecordEntry.
const (
	RecordTypePayment = "payment"
	RecordTypeExpense = "expense"
)

// ReconciliationUseCase imports bank statements and matches their lines to
// ledger entries, creating the entries for unmatched lines on the way.
type ReconciliationUseCase struct {
	txManager   TransactionManager
	reconRepo   ReconciliationRepository
	accountRepo AccountRepository
	vendorRepo  VendorRepository
	ledgerUC    *LedgerUseCase
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	txManager TransactionManager,
	reconRepo ReconciliationRepository,
	accountRepo AccountRepository,
	vendorRepo VendorRepository,
	ledgerUC *LedgerUseCase,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:   txManager,
		reconRepo:   reconRepo,
		accountRepo: accountRepo,
		vendorRepo:  vendorRepo,
		ledgerUC:    ledgerUC,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
	}
}

// ImportStatementInput is one bank statement to reconcile.
type ImportStatementInput struct {
	BankAccountID    string
	StartDate        time.Time
	EndDate          time.Time
	StatementBalance decimal.Decimal
	Lines            []domain.LineSpec
}

// ImportStatement creates a reconciliation with all its lines UNMATCHED in
// one transaction.
func (uc *ReconciliationUseCase) ImportStatement(ctx context.Context, input ImportStatementInput) (*domain.Reconciliation, error) {
	if input.BankAccountID == "" {
		return nil, fmt.Errorf("%w: bank account id is required", domain.ErrValidation)
	}

	now := time.Now().UTC()

	rec := &domain.Reconciliation{
		ID:               uc.idGen.Generate(),
		BankAccountID:    input.BankAccountID,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		StatementBalance: input.StatementBalance,
		Status:           domain.ReconciliationInProgress,
		CreatedAt:        now,
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.reconRepo.Create(ctx, tx, rec); err != nil {
		return nil, err
	}

	for _, spec := range input.Lines {
		line := &domain.ReconciliationLine{
			ID:               uc.idGen.Generate(),
			ReconciliationID: rec.ID,
			LineDate:         spec.LineDate,
			Description:      spec.Description,
			Amount:           spec.Amount,
			Reference:        spec.Reference,
			Status:           domain.LineStatusUnmatched,
			CreatedAt:        now,
		}

		if err := uc.reconRepo.CreateLine(ctx, tx, line); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return rec, nil
}

// NewVendorInput creates a vendor inline while recording an expense.
type NewVendorInput struct {
	Name     string
	Category string
}

// RecordEntryInput drives RecordEntry.
type RecordEntryInput struct {
	ReconciliationID string
	Type             string // payment or expense
	LineID           string
	Amount           decimal.Decimal
	Description      string
	EntryDate        time.Time
	LeaseID          string // payments
	AccountCode      string // expenses
	VendorID         string
	NewVendor        *NewVendorInput
	RecordedBy       string
}

// RecordEntryResult is what RecordEntry produced.
type RecordEntryResult struct {
	CashEntry     *domain.Entry
	Line          *domain.ReconciliationLine
	CreatedVendor *domain.Vendor
}

// RecordEntry creates the ledger entries for one unmatched statement line and
// marks the line matched, all inside a single transaction. Preconditions are
// checked in a fixed order; the first failure wins and nothing is written.
func (uc *ReconciliationUseCase) RecordEntry(ctx context.Context, input RecordEntryInput) (*RecordEntryResult, error) {
	// 1. Type-specific required fields.
	switch input.Type {
	case RecordTypePayment:
		if input.LeaseID == "" {
			return nil, domain.ErrLeaseRequired
		}
	case RecordTypeExpense:
		if input.AccountCode == "" {
			return nil, domain.ErrExpenseAccountRequired
		}
	default:
		return nil, fmt.Errorf("%w: unknown entry type %q", domain.ErrValidation, input.Type)
	}

	// 2. Reconciliation must exist.
	rec, err := uc.reconRepo.GetByID(ctx, input.ReconciliationID)
	if err != nil {
		return nil, err
	}

	// 3. Finalized reconciliations are immutable.
	if rec.Status != domain.ReconciliationInProgress {
		return nil, domain.ErrReconciliationFinalized
	}

	// 4. Line must exist and belong to this reconciliation.
	line, err := uc.reconRepo.GetLineByID(ctx, input.LineID)
	if err != nil {
		return nil, err
	}

	if line.ReconciliationID != rec.ID {
		return nil, domain.ErrLineMismatch
	}

	// 5. Line must still be unmatched.
	if line.Status != domain.LineStatusUnmatched {
		return nil, domain.ErrLineAlreadyMatched
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Re-read the line under lock: a concurrent RecordEntry on the same line
	// loses here rather than double-matching.
	line, err = uc.reconRepo.GetLineByIDForUpdate(ctx, tx, input.LineID)
	if err != nil {
		return nil, err
	}

	if line.Status != domain.LineStatusUnmatched {
		return nil, domain.ErrLineAlreadyMatched
	}

	// Re-check the reconciliation under a share lock. A finalize that commits
	// after the precondition read above must fail this match, not gain it.
	rec, err = uc.reconRepo.GetByIDForShare(ctx, tx, rec.ID)
	if err != nil {
		return nil, err
	}

	if rec.Status != domain.ReconciliationInProgress {
		return nil, domain.ErrReconciliationFinalized
	}

	// Resolve account references before any write so an unknown expense code
	// fails before a vendor row exists even briefly.
	if err := uc.requireAccount(ctx, tx, domain.AccountOperatingCash); err != nil {
		return nil, err
	}

	var debitSpec, creditSpec domain.EntrySpec

	switch input.Type {
	case RecordTypePayment:
		if err := uc.requireAccount(ctx, tx, domain.AccountReceivable); err != nil {
			return nil, err
		}

		debitSpec = uc.entrySpec(input, domain.AccountOperatingCash, domain.SideDebit, &input.LeaseID)
		creditSpec = uc.entrySpec(input, domain.AccountReceivable, domain.SideCredit, &input.LeaseID)

	case RecordTypeExpense:
		if err := uc.requireAccount(ctx, tx, input.AccountCode); err != nil {
			return nil, err
		}

		debitSpec = uc.entrySpec(input, input.AccountCode, domain.SideDebit, nil)
		creditSpec = uc.entrySpec(input, domain.AccountOperatingCash, domain.SideCredit, nil)
	}

	var createdVendor *domain.Vendor

	if input.Type == RecordTypeExpense && input.NewVendor != nil {
		createdVendor = &domain.Vendor{
			ID:        uc.idGen.Generate(),
			Name:      input.NewVendor.Name,
			Category:  input.NewVendor.Category,
			CreatedAt: time.Now().UTC(),
		}

		if err := createdVendor.Validate(); err != nil {
			return nil, err
		}

		if err := uc.vendorRepo.Create(ctx, tx, createdVendor); err != nil {
			return nil, err
		}
	}

	pair, err := uc.ledgerUC.PostDoubleEntryTx(ctx, tx, debitSpec, creditSpec)
	if err != nil {
		return nil, err
	}

	// The line links to whichever entry touched Operating Cash.
	cashEntry := pair.Debit
	if input.Type == RecordTypeExpense {
		cashEntry = pair.Credit
	}

	now := time.Now().UTC()

	if err := line.Match(cashEntry.ID, domain.MatchConfidenceManual, now); err != nil {
		return nil, err
	}

	if err := uc.reconRepo.UpdateLineMatched(ctx, tx, line); err != nil {
		return nil, err
	}

	uc.audit(ctx, tx, domain.AuditActionReconciliationRecord, input.RecordedBy, rec.ID, line)

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   rec.ID,
		AggregateType: domain.AggregateTypeReconciliation,
		EventType:     domain.EventTypeLineMatched,
		Payload: map[string]any{
			"reconciliation_id": rec.ID,
			"line_id":           line.ID,
			"ledger_entry_id":   cashEntry.ID,
			"match_confidence":  domain.MatchConfidenceManual,
		},
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &RecordEntryResult{
		CashEntry:     cashEntry,
		Line:          line,
		CreatedVendor: createdVendor,
	}, nil
}

// Finalize moves a reconciliation to its terminal FINALIZED state.
func (uc *ReconciliationUseCase) Finalize(ctx context.Context, id, by string) (*domain.Reconciliation, error) {
	rec, err := uc.reconRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if err := rec.Finalize(by, now); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.reconRepo.Finalize(ctx, tx, id, by, now); err != nil {
		return nil, err
	}

	uc.audit(ctx, tx, domain.AuditActionReconciliationFinalize, by, rec.ID, rec)

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   rec.ID,
		AggregateType: domain.AggregateTypeReconciliation,
		EventType:     domain.EventTypeReconciliationFinalized,
		Payload: map[string]any{
			"reconciliation_id": rec.ID,
			"bank_account_id":   rec.BankAccountID,
			"finalized_by":      by,
		},
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return rec, nil
}

// Get retrieves a reconciliation by ID.
func (uc *ReconciliationUseCase) Get(ctx context.Context, id string) (*domain.Reconciliation, error) {
	return uc.reconRepo.GetByID(ctx, id)
}

// ListLines lists all lines of a reconciliation.
func (uc *ReconciliationUseCase) ListLines(ctx context.Context, reconciliationID string) ([]*domain.ReconciliationLine, error) {
	if _, err := uc.reconRepo.GetByID(ctx, reconciliationID); err != nil {
		return nil, err
	}

	return uc.reconRepo.ListLines(ctx, reconciliationID)
}

func (uc *ReconciliationUseCase) requireAccount(ctx context.Context, tx Transaction, code string) error {
	if _, err := uc.accountRepo.GetByCodeTx(ctx, tx, code); err != nil {
		if errors.Is(err, domain.ErrUnknownAccount) {
			return fmt.Errorf("%w: %s", domain.ErrUnknownAccount, code)
		}

		return err
	}

	return nil
}

func (uc *ReconciliationUseCase) entrySpec(input RecordEntryInput, accountCode string, side domain.Side, leaseID *string) domain.EntrySpec {
	return domain.EntrySpec{
		AccountCode:    accountCode,
		Amount:         input.Amount,
		Side:           side,
		Description:    input.Description,
		EntryDate:      input.EntryDate,
		LeaseID:        leaseID,
		PostedBy:       input.RecordedBy,
		IdempotencyKey: "recon:" + input.LineID + ":" + string(side),
	}
}

func (uc *ReconciliationUseCase) audit(ctx context.Context, tx Transaction, action, actor, resourceID string, state any) {
	_ = uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Actor:        actor,
		Action:       action,
		ResourceType: domain.AggregateTypeReconciliation,
		ResourceID:   resourceID,
		AfterState:   domain.MarshalState(state),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}
