package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
	"github.com/propledger/propledger/internal/usecase/mocks"
)

func newAccountUseCase(t *testing.T) (*usecase.AccountUseCase, *mocks.MockAccountRepository) {
	t.Helper()

	repo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(
		mocks.NewMockTransactionManager(),
		repo,
		mocks.NewMockAuditRepository(),
		mocks.NewMockIDGenerator(),
	)

	return uc, repo
}

func TestAccountUseCase_Create(t *testing.T) {
	uc, _ := newAccountUseCase(t)

	account, err := uc.Create(context.Background(), "1300", "Prepaid Rent", domain.AccountTypeAsset, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.Active {
		t.Fatal("new account must be active")
	}

	if _, err := uc.Create(context.Background(), "1300", "Prepaid Rent", domain.AccountTypeAsset, "admin"); !errors.Is(err, domain.ErrAccountAlreadyExists) {
		t.Fatalf("expected ErrAccountAlreadyExists, got %v", err)
	}
}

func TestAccountUseCase_CreateValidation(t *testing.T) {
	uc, _ := newAccountUseCase(t)

	tests := []struct {
		name        string
		code        string
		accountName string
		accountType domain.AccountType
		wantErr     error
	}{
		{"bad code", "13", "Prepaid Rent", domain.AccountTypeAsset, domain.ErrValidation},
		{"empty name", "1300", "", domain.AccountTypeAsset, domain.ErrValidation},
		{"bad type", "1300", "Prepaid Rent", domain.AccountType("FUND"), domain.ErrInvalidAccountType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Create(context.Background(), tt.code, tt.accountName, tt.accountType, "admin"); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAccountUseCase_DeactivateReactivate(t *testing.T) {
	uc, _ := newAccountUseCase(t)

	if _, err := uc.Create(context.Background(), "1300", "Prepaid Rent", domain.AccountTypeAsset, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	account, err := uc.Deactivate(context.Background(), "1300", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Active {
		t.Fatal("expected account inactive")
	}

	// Deactivating again is a no-op, not an error.
	if _, err := uc.Deactivate(context.Background(), "1300", "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	account, err = uc.Reactivate(context.Background(), "1300", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !account.Active {
		t.Fatal("expected account active")
	}

	if _, err := uc.Deactivate(context.Background(), "8888", "admin"); !errors.Is(err, domain.ErrUnknownAccount) {
		t.Fatalf("expected ErrUnknownAccount, got %v", err)
	}
}

func TestAccountUseCase_SeedDefaults(t *testing.T) {
	uc, repo := newAccountUseCase(t)

	created, err := uc.SeedDefaults(context.Background(), "startup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != len(domain.DefaultChart) {
		t.Fatalf("expected %d accounts, got %d", len(domain.DefaultChart), len(created))
	}

	// Seeding again creates nothing.
	created, err = uc.SeedDefaults(context.Background(), "startup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("expected no new accounts, got %d", len(created))
	}

	accounts, err := repo.List(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != len(domain.DefaultChart) {
		t.Fatalf("expected %d accounts, got %d", len(domain.DefaultChart), len(accounts))
	}
}
