package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/propledger/propledger/internal/domain"
)

// AccountUseCase manages the chart of accounts.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(txManager TransactionManager, accountRepo AccountRepository, auditRepo AuditRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
	}
}

// Create adds an account to the chart.
func (uc *AccountUseCase) Create(ctx context.Context, code, name string, accountType domain.AccountType, actor string) (*domain.Account, error) {
	account, err := domain.NewAccount(code, name, accountType, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		uc.auditTx(ctx, tx, domain.AuditActionAccountCreate, actor, account.Code, nil, account)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}

// Deactivate retires an account from posting. Its history stays intact and
// it keeps appearing in reports.
func (uc *AccountUseCase) Deactivate(ctx context.Context, code, actor string) (*domain.Account, error) {
	return uc.setActive(ctx, code, false, domain.AuditActionAccountDeactivate, actor)
}

// Reactivate reopens a deactivated account for posting.
func (uc *AccountUseCase) Reactivate(ctx context.Context, code, actor string) (*domain.Account, error) {
	return uc.setActive(ctx, code, true, domain.AuditActionAccountReactivate, actor)
}

func (uc *AccountUseCase) setActive(ctx context.Context, code string, active bool, action, actor string) (*domain.Account, error) {
	if err := domain.ValidateAccountCode(code); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	account, err := uc.accountRepo.GetByCodeTx(ctx, tx, code)
	if err != nil {
		return nil, err
	}

	if account.Active == active {
		// Already in the requested state, nothing to write.
		return account, nil
	}

	before := *account

	account.Active = active
	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.SetActive(ctx, tx, code, active, account.UpdatedAt); err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		uc.auditTx(ctx, tx, action, actor, account.Code, &before, account)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return account, nil
}

func (uc *AccountUseCase) auditTx(ctx context.Context, tx Transaction, action, actor, resourceID string, before, after any) {
	_ = uc.auditRepo.CreateTx(ctx, tx, &domain.AuditLog{
		ID:           uc.idGen.Generate(),
		Actor:        actor,
		Action:       action,
		ResourceType: domain.AggregateTypeAccount,
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}

// Get returns one account by code.
func (uc *AccountUseCase) Get(ctx context.Context, code string) (*domain.Account, error) {
	if err := domain.ValidateAccountCode(code); err != nil {
		return nil, err
	}

	return uc.accountRepo.GetByCode(ctx, code)
}

// List returns the chart, optionally restricted to active accounts.
func (uc *AccountUseCase) List(ctx context.Context, activeOnly bool) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx, activeOnly)
}

// SeedDefaults creates any missing account from the default property
// management chart. Accounts that already exist are left untouched, so the
// call is safe to repeat on every startup.
func (uc *AccountUseCase) SeedDefaults(ctx context.Context, actor string) ([]*domain.Account, error) {
	var created []*domain.Account

	for _, entry := range domain.DefaultChart {
		_, err := uc.accountRepo.GetByCode(ctx, entry.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUnknownAccount) {
			return nil, err
		}

		account, err := uc.Create(ctx, entry.Code, entry.Name, entry.Type, actor)
		if err != nil {
			if errors.Is(err, domain.ErrAccountAlreadyExists) {
				continue
			}
			return nil, err
		}

		created = append(created, account)
	}

	return created, nil
}
