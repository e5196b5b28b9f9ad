package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/domain"
)

// LedgerUseCase is the double-entry posting engine. Every ledger entry in the
// system is written through it, inside one database transaction per call.
type LedgerUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	accountRepo AccountRepository
	entryRepo   EntryRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	retrier Retrier,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		retrier:     retrier,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
	}
}

// DoubleEntry is the result of a balanced posting.
type DoubleEntry struct {
	Debit  *domain.Entry
	Credit *domain.Entry
}

// PostEntry posts a single entry idempotently: a spec whose idempotency key
// already exists returns the original entry and writes nothing.
func (uc *LedgerUseCase) PostEntry(ctx context.Context, spec domain.EntrySpec) (*domain.Entry, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	var entry *domain.Entry

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, _, err = uc.postEntryTx(ctx, tx, spec)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// PostDoubleEntry validates and atomically posts a balanced debit/credit
// pair. Either both entries commit or neither does.
func (uc *LedgerUseCase) PostDoubleEntry(ctx context.Context, debit, credit domain.EntrySpec) (*DoubleEntry, error) {
	if err := validatePair(debit, credit); err != nil {
		return nil, err
	}

	var result *DoubleEntry

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		result, err = uc.PostDoubleEntryTx(ctx, tx, debit, credit)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// PostDoubleEntryTx posts a balanced pair inside the caller's transaction.
// The transfer and reconciliation usecases post through here so their line or
// status updates share the pair's all-or-nothing boundary.
func (uc *LedgerUseCase) PostDoubleEntryTx(ctx context.Context, tx Transaction, debit, credit domain.EntrySpec) (*DoubleEntry, error) {
	if err := validatePair(debit, credit); err != nil {
		return nil, err
	}

	debitEntry, created, err := uc.postEntryTx(ctx, tx, debit)
	if err != nil {
		return nil, err
	}

	creditEntry, _, err := uc.postEntryTx(ctx, tx, credit)
	if err != nil {
		return nil, err
	}

	if created {
		uc.auditTx(ctx, tx, domain.AuditActionEntryPost, debit.PostedBy, debitEntry.ID, nil, &DoubleEntry{Debit: debitEntry, Credit: creditEntry})
	}

	return &DoubleEntry{Debit: debitEntry, Credit: creditEntry}, nil
}

// postEntryTx applies the idempotency guard and inserts the entry. The bool
// result reports whether a new row was created.
func (uc *LedgerUseCase) postEntryTx(ctx context.Context, tx Transaction, spec domain.EntrySpec) (*domain.Entry, bool, error) {
	if err := spec.Validate(); err != nil {
		return nil, false, err
	}

	// The account must exist in the chart, active or not: deactivated
	// accounts still accept correction entries.
	if _, err := uc.accountRepo.GetByCodeTx(ctx, tx, spec.AccountCode); err != nil {
		if errors.Is(err, domain.ErrUnknownAccount) {
			return nil, false, fmt.Errorf("%w: %s", domain.ErrUnknownAccount, spec.AccountCode)
		}

		return nil, false, err
	}

	key := spec.Key()

	existing, err := uc.entryRepo.GetByIdempotencyKey(ctx, tx, key)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, false, err
	}

	now := time.Now().UTC()

	entry := &domain.Entry{
		ID:             uc.idGen.Generate(),
		AccountCode:    spec.AccountCode,
		Amount:         spec.Amount,
		Side:           spec.Side,
		Description:    spec.Description,
		EntryDate:      spec.EntryDate,
		LeaseID:        spec.LeaseID,
		TransferID:     spec.TransferID,
		PostedBy:       spec.PostedBy,
		Status:         domain.EntryStatusPosted,
		IdempotencyKey: key,
		CreatedAt:      now,
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, false, err
	}

	leaseID := ""
	if entry.LeaseID != nil {
		leaseID = *entry.LeaseID
	}

	err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entry.ID,
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeEntryPosted,
		Payload: map[string]any{
			"entry_id":     entry.ID,
			"account_code": entry.AccountCode,
			"side":         string(entry.Side),
			"amount":       entry.Amount.String(),
			"lease_id":     leaseID,
			"entry_date":   entry.EntryDate.UTC().Format("2006-01-02"),
		},
		CreatedAt: now,
	})
	if err != nil {
		return nil, false, err
	}

	return entry, true, nil
}

// VoidEntry flips a posted entry to VOID. The entry stays in the store for
// audit; corrections are posted as fresh balanced pairs, never edits.
func (uc *LedgerUseCase) VoidEntry(ctx context.Context, id, actor string) (*domain.Entry, error) {
	var entry *domain.Entry

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err = uc.entryRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		before := *entry
		if err := entry.Void(); err != nil {
			return err
		}

		if err := uc.entryRepo.UpdateStatus(ctx, tx, id, domain.EntryStatusVoid); err != nil {
			return err
		}

		uc.auditTx(ctx, tx, domain.AuditActionEntryVoid, actor, id, &before, entry)

		err = uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   id,
			AggregateType: domain.AggregateTypeEntry,
			EventType:     domain.EventTypeEntryVoided,
			Payload: map[string]any{
				"entry_id":     id,
				"account_code": entry.AccountCode,
				"amount":       entry.Amount.String(),
				"voided_by":    actor,
			},
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ChargeSpec is one scheduled charge to post, e.g. a monthly rent charge.
type ChargeSpec struct {
	LeaseID        string
	Amount         decimal.Decimal
	Description    string
	EntryDate      time.Time
	PostedBy       string
	IdempotencyKey string
	DebitAccount   string // defaults to Accounts Receivable
	CreditAccount  string // defaults to Rent Income
}

// BatchResult reports the outcome of a charge batch.
type BatchResult struct {
	Posted []*DoubleEntry
	Failed []ChargeFailure
}

// ChargeFailure pairs a failed charge with its error.
type ChargeFailure struct {
	Charge ChargeSpec
	Err    error
}

// PostChargeBatch posts scheduled charges one atomic double entry at a time.
// Each charge is independently idempotent, so re-running the batch after a
// partial failure (or a duplicate cron fire) only posts what is missing.
func (uc *LedgerUseCase) PostChargeBatch(ctx context.Context, charges []ChargeSpec) (*BatchResult, error) {
	result := &BatchResult{}

	for _, charge := range charges {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		debitAccount := charge.DebitAccount
		if debitAccount == "" {
			debitAccount = domain.AccountReceivable
		}

		creditAccount := charge.CreditAccount
		if creditAccount == "" {
			creditAccount = domain.AccountRentIncome
		}

		leaseID := charge.LeaseID

		pair, err := uc.PostDoubleEntry(ctx,
			domain.EntrySpec{
				AccountCode:    debitAccount,
				Amount:         charge.Amount,
				Side:           domain.SideDebit,
				Description:    charge.Description,
				EntryDate:      charge.EntryDate,
				LeaseID:        &leaseID,
				PostedBy:       charge.PostedBy,
				IdempotencyKey: suffixKey(charge.IdempotencyKey, "dr"),
			},
			domain.EntrySpec{
				AccountCode:    creditAccount,
				Amount:         charge.Amount,
				Side:           domain.SideCredit,
				Description:    charge.Description,
				EntryDate:      charge.EntryDate,
				LeaseID:        &leaseID,
				PostedBy:       charge.PostedBy,
				IdempotencyKey: suffixKey(charge.IdempotencyKey, "cr"),
			},
		)
		if err != nil {
			result.Failed = append(result.Failed, ChargeFailure{Charge: charge, Err: err})
			continue
		}

		result.Posted = append(result.Posted, pair)
	}

	return result, nil
}

// GetEntry retrieves an entry by ID.
func (uc *LedgerUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

func (uc *LedgerUseCase) run(ctx context.Context, fn func() error) error {
	if uc.retrier == nil {
		return fn()
	}

	return uc.retrier.Retry(ctx, fn)
}

func (uc *LedgerUseCase) auditTx(ctx context.Context, tx Transaction, action, actor, resourceID string, before, after any) {
	_ = uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Actor:        actor,
		Action:       action,
		ResourceType: domain.AggregateTypeEntry,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}

func validatePair(debit, credit domain.EntrySpec) error {
	if debit.Side != domain.SideDebit || credit.Side != domain.SideCredit {
		return domain.ErrInvalidSide
	}

	if err := debit.Validate(); err != nil {
		return err
	}

	if err := credit.Validate(); err != nil {
		return err
	}

	if !debit.Amount.Equal(credit.Amount) {
		return domain.ErrUnbalancedPair
	}

	return nil
}

func suffixKey(key, suffix string) string {
	if key == "" {
		return ""
	}

	return key + ":" + suffix
}
