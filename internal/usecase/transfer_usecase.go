package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/domain"
)

// TransferUseCase models multi-step payment settlement through the Cash in
// Transit account. Initiate moves the receivable onto transit; the eventual
// settle or reverse posts the balancing credit to transit, so Operating Cash
// only ever reflects money that actually arrived.
type TransferUseCase struct {
	txManager    TransactionManager
	transferRepo TransferRepository
	ledgerUC     *LedgerUseCase
	outboxRepo   OutboxRepository
	auditRepo    AuditRepository
	idGen        IDGenerator
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	transferRepo TransferRepository,
	ledgerUC *LedgerUseCase,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		transferRepo: transferRepo,
		ledgerUC:     ledgerUC,
		outboxRepo:   outboxRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
	}
}

// InitiateTransferInput describes a payment entering settlement.
type InitiateTransferInput struct {
	LeaseID     string
	Amount      decimal.Decimal
	Reference   string
	EntryDate   time.Time
	InitiatedBy string
}

// Initiate records an in-flight payment: DR Cash in Transit / CR Accounts
// Receivable. Operating Cash is untouched until settlement.
func (uc *TransferUseCase) Initiate(ctx context.Context, input InitiateTransferInput) (*domain.Transfer, error) {
	now := time.Now().UTC()

	transfer := &domain.Transfer{
		ID:          uc.idGen.Generate(),
		LeaseID:     input.LeaseID,
		Amount:      input.Amount,
		Reference:   input.Reference,
		Status:      domain.TransferStatusPending,
		InitiatedBy: input.InitiatedBy,
		InitiatedAt: now,
	}

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	description := "Payment in transit " + input.Reference

	_, err = uc.ledgerUC.PostDoubleEntryTx(ctx, tx,
		uc.entrySpec(transfer, domain.AccountCashInTransit, domain.SideDebit, description, input.EntryDate, "initiate:dr"),
		uc.entrySpec(transfer, domain.AccountReceivable, domain.SideCredit, description, input.EntryDate, "initiate:cr"),
	)
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, tx, domain.AuditActionTransferInitiate, input.InitiatedBy, transfer)
	if err := uc.emitEvent(ctx, tx, transfer, domain.EventTypeTransferInitiated); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return transfer, nil
}

// Settle confirms an in-flight payment: DR Operating Cash / CR Cash in
// Transit. Across initiate+settle the net effect is DR cash / CR receivable.
func (uc *TransferUseCase) Settle(ctx context.Context, transferID, actor string) (*domain.Transfer, error) {
	return uc.complete(ctx, transferID, actor, false)
}

// Reverse unwinds a failed in-flight payment: DR Accounts Receivable / CR
// Cash in Transit, restoring the amount owed. No entry ever references
// Operating Cash during a reversal.
func (uc *TransferUseCase) Reverse(ctx context.Context, transferID, actor string) (*domain.Transfer, error) {
	return uc.complete(ctx, transferID, actor, true)
}

func (uc *TransferUseCase) complete(ctx context.Context, transferID, actor string, reverse bool) (*domain.Transfer, error) {
	now := time.Now().UTC()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	transfer, err := uc.transferRepo.GetByIDForUpdate(ctx, tx, transferID)
	if err != nil {
		return nil, err
	}

	var (
		debitAccount string
		description  string
		action       string
		eventType    string
		keySuffix    string
	)

	if reverse {
		if err := transfer.Reverse(now); err != nil {
			return nil, err
		}

		debitAccount = domain.AccountReceivable
		description = "Payment reversed " + transfer.Reference
		action = domain.AuditActionTransferReverse
		eventType = domain.EventTypeTransferReversed
		keySuffix = "reverse"
	} else {
		if err := transfer.Settle(now); err != nil {
			return nil, err
		}

		debitAccount = domain.AccountOperatingCash
		description = "Payment settled " + transfer.Reference
		action = domain.AuditActionTransferSettle
		eventType = domain.EventTypeTransferSettled
		keySuffix = "settle"
	}

	_, err = uc.ledgerUC.PostDoubleEntryTx(ctx, tx,
		uc.entrySpec(transfer, debitAccount, domain.SideDebit, description, now, keySuffix+":dr"),
		uc.entrySpec(transfer, domain.AccountCashInTransit, domain.SideCredit, description, now, keySuffix+":cr"),
	)
	if err != nil {
		return nil, err
	}

	if err := uc.transferRepo.UpdateStatus(ctx, tx, transfer.ID, transfer.Status, transfer.CompletedAt); err != nil {
		return nil, err
	}

	uc.audit(ctx, tx, action, actor, transfer)
	if err := uc.emitEvent(ctx, tx, transfer, eventType); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return transfer, nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

// ListByLease lists transfers for a lease.
func (uc *TransferUseCase) ListByLease(ctx context.Context, leaseID string, limit, offset int) ([]*domain.Transfer, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.transferRepo.ListByLease(ctx, leaseID, limit, offset)
}

// ListAgedPending returns transfers stuck in PENDING longer than maxAge.
// Monitoring alerts on these: a healthy ledger eventually credits every
// transit debit via settle or reverse.
func (uc *TransferUseCase) ListAgedPending(ctx context.Context, maxAge time.Duration, limit int) ([]*domain.Transfer, error) {
	if maxAge <= 0 {
		maxAge = AgedTransitCutoff
	}

	limit, _ = domain.ValidatePagination(limit, 0)
	cutoff := time.Now().UTC().Add(-maxAge)

	return uc.transferRepo.ListPendingOlderThan(ctx, cutoff, limit)
}

func (uc *TransferUseCase) entrySpec(transfer *domain.Transfer, accountCode string, side domain.Side, description string, entryDate time.Time, keySuffix string) domain.EntrySpec {
	leaseID := transfer.LeaseID
	transferID := transfer.ID

	return domain.EntrySpec{
		AccountCode:    accountCode,
		Amount:         transfer.Amount,
		Side:           side,
		Description:    description,
		EntryDate:      entryDate,
		LeaseID:        &leaseID,
		TransferID:     &transferID,
		PostedBy:       transfer.InitiatedBy,
		IdempotencyKey: "transfer:" + transfer.ID + ":" + keySuffix,
	}
}

func (uc *TransferUseCase) audit(ctx context.Context, tx Transaction, action, actor string, transfer *domain.Transfer) {
	_ = uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Actor:        actor,
		Action:       action,
		ResourceType: domain.AggregateTypeTransfer,
		ResourceID:   transfer.ID,
		AfterState:   domain.MarshalState(transfer),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}

func (uc *TransferUseCase) emitEvent(ctx context.Context, tx Transaction, transfer *domain.Transfer, eventType string) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   transfer.ID,
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     eventType,
		Payload: map[string]any{
			"transfer_id": transfer.ID,
			"lease_id":    transfer.LeaseID,
			"amount":      transfer.Amount.String(),
			"status":      string(transfer.Status),
		},
		CreatedAt: time.Now().UTC(),
	})
}
