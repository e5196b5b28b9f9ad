package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func validSpec() *EntrySpec {
	return &EntrySpec{
		AccountCode: AccountReceivable,
		Amount:      decimal.NewFromInt(2500),
		Side:        SideDebit,
		Description: "Rent charge 2025-01",
		EntryDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		LeaseID:     strPtr("lease-1"),
		PostedBy:    "system",
	}
}

func TestEntrySpec_Validate(t *testing.T) {
	t.Run("valid spec", func(t *testing.T) {
		if err := validSpec().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		s := validSpec()
		s.Amount = decimal.Zero
		if err := s.Validate(); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		s := validSpec()
		s.Amount = decimal.NewFromInt(-10)
		if err := s.Validate(); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("rejects bad side", func(t *testing.T) {
		s := validSpec()
		s.Side = Side("DEBIT")
		if err := s.Validate(); !errors.Is(err, ErrInvalidSide) {
			t.Fatalf("expected ErrInvalidSide, got %v", err)
		}
	})

	t.Run("rejects missing account code", func(t *testing.T) {
		s := validSpec()
		s.AccountCode = ""
		if err := s.Validate(); !errors.Is(err, ErrAccountCodeRequired) {
			t.Fatalf("expected ErrAccountCodeRequired, got %v", err)
		}
	})

	t.Run("rejects empty description", func(t *testing.T) {
		s := validSpec()
		s.Description = "  "
		if err := s.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestIdempotencyKey(t *testing.T) {
	t.Run("explicit key wins", func(t *testing.T) {
		s := validSpec()
		s.IdempotencyKey = "charge:lease-1:2025-01"
		if s.Key() != "charge:lease-1:2025-01" {
			t.Errorf("expected explicit key, got %s", s.Key())
		}
	})

	t.Run("identical specs derive identical keys", func(t *testing.T) {
		a, b := validSpec(), validSpec()
		if a.Key() != b.Key() {
			t.Error("expected equal derived keys")
		}
	})

	t.Run("any identity field changes the key", func(t *testing.T) {
		base := validSpec().Key()

		mutations := map[string]func(*EntrySpec){
			"amount":      func(s *EntrySpec) { s.Amount = decimal.NewFromInt(2501) },
			"side":        func(s *EntrySpec) { s.Side = SideCredit },
			"description": func(s *EntrySpec) { s.Description = "Rent charge 2025-02" },
			"account":     func(s *EntrySpec) { s.AccountCode = AccountRentIncome },
			"lease":       func(s *EntrySpec) { s.LeaseID = strPtr("lease-2") },
			"date":        func(s *EntrySpec) { s.EntryDate = s.EntryDate.AddDate(0, 1, 0) },
		}

		for name, mutate := range mutations {
			s := validSpec()
			mutate(s)
			if s.Key() == base {
				t.Errorf("mutating %s did not change the derived key", name)
			}
		}
	})

	t.Run("posted-by does not affect identity", func(t *testing.T) {
		a, b := validSpec(), validSpec()
		b.PostedBy = "someone-else"
		if a.Key() != b.Key() {
			t.Error("PostedBy must not take part in the idempotency key")
		}
	})
}

func TestEntry_Void(t *testing.T) {
	e := &Entry{ID: "e1", Status: EntryStatusPosted}

	if err := e.Void(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != EntryStatusVoid {
		t.Errorf("expected VOID, got %s", e.Status)
	}

	if err := e.Void(); !errors.Is(err, ErrEntryAlreadyVoid) {
		t.Fatalf("expected ErrEntryAlreadyVoid on second void, got %v", err)
	}
}

func TestEntry_SignedAmount(t *testing.T) {
	amount := decimal.NewFromInt(100)

	dr := &Entry{Side: SideDebit, Amount: amount}
	if !dr.SignedAmount().Equal(amount) {
		t.Errorf("expected +100, got %s", dr.SignedAmount())
	}

	cr := &Entry{Side: SideCredit, Amount: amount}
	if !cr.SignedAmount().Equal(amount.Neg()) {
		t.Errorf("expected -100, got %s", cr.SignedAmount())
	}
}
