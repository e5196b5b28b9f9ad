package domain

import (
	"errors"
	"testing"
	"time"
)

func TestAccountType_NormalBalance(t *testing.T) {
	tests := []struct {
		accountType AccountType
		want        Side
	}{
		{AccountTypeAsset, SideDebit},
		{AccountTypeExpense, SideDebit},
		{AccountTypeLiability, SideCredit},
		{AccountTypeIncome, SideCredit},
		{AccountTypeEquity, SideCredit},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			if got := tt.accountType.NormalBalance(); got != tt.want {
				t.Errorf("NormalBalance() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewAccount(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid account", func(t *testing.T) {
		acc, err := NewAccount("1000", "Operating Cash", AccountTypeAsset, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !acc.Active {
			t.Error("expected new account to be active")
		}
		if acc.NormalBalance() != SideDebit {
			t.Errorf("expected DR normal balance, got %s", acc.NormalBalance())
		}
	})

	t.Run("rejects bad code", func(t *testing.T) {
		_, err := NewAccount("10", "Cash", AccountTypeAsset, now)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewAccount("1000", "Cash", AccountType("REVENUE"), now)
		if !errors.Is(err, ErrInvalidAccountType) {
			t.Fatalf("expected ErrInvalidAccountType, got %v", err)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewAccount("1000", "   ", AccountTypeAsset, now)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestDefaultChart(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range DefaultChart {
		if seen[e.Code] {
			t.Errorf("duplicate chart code %s", e.Code)
		}
		seen[e.Code] = true

		if !e.Type.Valid() {
			t.Errorf("chart code %s has invalid type %s", e.Code, e.Type)
		}
	}

	if LookupChartEntry(AccountCashInTransit) == nil {
		t.Error("expected transit account in default chart")
	}

	if LookupChartEntry("9999") != nil {
		t.Error("expected nil for unknown code")
	}
}
