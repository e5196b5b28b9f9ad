package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
	"github.com/propledger/propledger/internal/usecase/mocks"
)

func postCharge(t *testing.T, f *ledgerFixture, leaseID string, amount int64, date time.Time, desc string) *usecase.DoubleEntry {
	t.Helper()

	lease := leaseID
	pair, err := f.uc.PostDoubleEntry(context.Background(),
		domain.EntrySpec{
			AccountCode: domain.AccountReceivable,
			Amount:      decimal.NewFromInt(amount),
			Side:        domain.SideDebit,
			Description: desc,
			EntryDate:   date,
			LeaseID:     &lease,
			PostedBy:    "system",
		},
		domain.EntrySpec{
			AccountCode: domain.AccountRentIncome,
			Amount:      decimal.NewFromInt(amount),
			Side:        domain.SideCredit,
			Description: desc,
			EntryDate:   date,
			LeaseID:     &lease,
			PostedBy:    "system",
		},
	)
	if err != nil {
		t.Fatalf("posting charge: %v", err)
	}

	return pair
}

func postPayment(t *testing.T, f *ledgerFixture, leaseID string, amount int64, date time.Time, desc string) {
	t.Helper()

	lease := leaseID
	_, err := f.uc.PostDoubleEntry(context.Background(),
		domain.EntrySpec{
			AccountCode: domain.AccountOperatingCash,
			Amount:      decimal.NewFromInt(amount),
			Side:        domain.SideDebit,
			Description: desc,
			EntryDate:   date,
			LeaseID:     &lease,
			PostedBy:    "system",
		},
		domain.EntrySpec{
			AccountCode: domain.AccountReceivable,
			Amount:      decimal.NewFromInt(amount),
			Side:        domain.SideCredit,
			Description: desc,
			EntryDate:   date,
			LeaseID:     &lease,
			PostedBy:    "system",
		},
	)
	if err != nil {
		t.Fatalf("posting payment: %v", err)
	}
}

func TestReportUseCase_LeaseBalance(t *testing.T) {
	f := newLedgerFixture(t)
	reports := usecase.NewReportUseCase(f.accounts, f.entries, nil)

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	postCharge(t, f, "lease-1", 1000, march, "March rent")
	postCharge(t, f, "lease-1", 1500, april, "April rent")
	postCharge(t, f, "lease-2", 2000, march, "March rent")

	balance, err := reports.LeaseBalance(context.Background(), "lease-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("lease balance = %s, want 2500", balance)
	}

	// A payment reduces the outstanding receivable.
	postPayment(t, f, "lease-1", 1000, april, "March rent payment")

	balance, err = reports.LeaseBalance(context.Background(), "lease-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("lease balance after payment = %s, want 1500", balance)
	}
}

func TestReportUseCase_AccountBalanceNormalSide(t *testing.T) {
	f := newLedgerFixture(t)
	reports := usecase.NewReportUseCase(f.accounts, f.entries, nil)

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	postCharge(t, f, "lease-1", 1000, march, "March rent")

	// Asset account: DR-normal, so the receivable debit is positive.
	ar, err := reports.AccountBalance(context.Background(), usecase.BalanceQuery{AccountCode: domain.AccountReceivable})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ar.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("receivable = %s, want 1000", ar)
	}

	// Income account: CR-normal, so the income credit is also positive.
	income, err := reports.AccountBalance(context.Background(), usecase.BalanceQuery{AccountCode: domain.AccountRentIncome})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !income.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("rent income = %s, want 1000", income)
	}

	if _, err := reports.AccountBalance(context.Background(), usecase.BalanceQuery{AccountCode: "9999"}); !errors.Is(err, domain.ErrUnknownAccount) {
		t.Fatalf("expected ErrUnknownAccount, got %v", err)
	}
}

func TestReportUseCase_AccountBalanceCache(t *testing.T) {
	f := newLedgerFixture(t)

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	reports := usecase.NewReportUseCase(f.accounts, f.entries, cache)

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	postCharge(t, f, "lease-1", 1000, march, "March rent")

	query := usecase.BalanceQuery{AccountCode: domain.AccountReceivable}

	// First call misses and writes through; second call is served from cache
	// without touching the entry store.
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("cache miss")),
		cache.EXPECT().Set(gomock.Any(), gomock.Any(), []byte("1000"), usecase.BalanceCacheTTL).Return(nil),
		cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return([]byte("1000"), nil),
	)

	for i := 0; i < 2; i++ {
		balance, err := reports.AccountBalance(context.Background(), query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.Equal(decimal.NewFromInt(1000)) {
			t.Fatalf("balance = %s, want 1000", balance)
		}
	}
}

func TestReportUseCase_TrialBalance(t *testing.T) {
	f := newLedgerFixture(t)
	reports := usecase.NewReportUseCase(f.accounts, f.entries, nil)

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	postCharge(t, f, "lease-1", 1000, march, "March rent")
	postPayment(t, f, "lease-1", 400, march, "Partial payment")

	tb, err := reports.GenerateTrialBalance(context.Background(), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tb.Balanced {
		t.Fatalf("trial balance not balanced: DR %s CR %s", tb.TotalDebits, tb.TotalCredits)
	}
	if !tb.TotalDebits.Equal(decimal.NewFromInt(1400)) {
		t.Fatalf("total debits = %s, want 1400", tb.TotalDebits)
	}
	if len(tb.Rows) != len(domain.DefaultChart) {
		t.Fatalf("expected a row per account, got %d", len(tb.Rows))
	}
}

func TestReportUseCase_AgedReceivables(t *testing.T) {
	f := newLedgerFixture(t)
	reports := usecase.NewReportUseCase(f.accounts, f.entries, nil)

	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// lease-1: charges aged 100, 45 and 10 days, with a payment that clears
	// the oldest charge and part of the middle one (oldest-first).
	postCharge(t, f, "lease-1", 1000, asOf.AddDate(0, 0, -100), "Feb rent")
	postCharge(t, f, "lease-1", 1000, asOf.AddDate(0, 0, -45), "April rent")
	postCharge(t, f, "lease-1", 1000, asOf.AddDate(0, 0, -10), "May rent")
	postPayment(t, f, "lease-1", 1400, asOf.AddDate(0, 0, -5), "Payment")

	// lease-2 is fully paid and must not appear.
	postCharge(t, f, "lease-2", 500, asOf.AddDate(0, 0, -20), "May rent")
	postPayment(t, f, "lease-2", 500, asOf.AddDate(0, 0, -5), "Payment")

	report, err := reports.AgedReceivables(context.Background(), asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report) != 1 {
		t.Fatalf("expected 1 lease in report, got %d", len(report))
	}

	aged := report[0]
	if aged.LeaseID != "lease-1" {
		t.Fatalf("unexpected lease %s", aged.LeaseID)
	}
	if !aged.Outstanding.Equal(decimal.NewFromInt(1600)) {
		t.Fatalf("outstanding = %s, want 1600", aged.Outstanding)
	}
	if !aged.Buckets[usecase.BucketOver90].IsZero() {
		t.Fatalf("oldest charge not cleared: %s", aged.Buckets[usecase.BucketOver90])
	}
	if !aged.Buckets[usecase.Bucket31to60].Equal(decimal.NewFromInt(600)) {
		t.Fatalf("31-60 bucket = %s, want 600", aged.Buckets[usecase.Bucket31to60])
	}
	if !aged.Buckets[usecase.BucketCurrent].Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("0-30 bucket = %s, want 1000", aged.Buckets[usecase.BucketCurrent])
	}
}

func TestReportUseCase_IncomeStatement(t *testing.T) {
	f := newLedgerFixture(t)
	reports := usecase.NewReportUseCase(f.accounts, f.entries, nil)

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	postCharge(t, f, "lease-1", 2000, march, "March rent")

	// An expense: DR Repairs / CR Operating Cash.
	_, err := f.uc.PostDoubleEntry(context.Background(),
		domain.EntrySpec{
			AccountCode: domain.AccountRepairs,
			Amount:      decimal.NewFromInt(300),
			Side:        domain.SideDebit,
			Description: "Roof patch",
			EntryDate:   march,
			PostedBy:    "manager",
		},
		domain.EntrySpec{
			AccountCode: domain.AccountOperatingCash,
			Amount:      decimal.NewFromInt(300),
			Side:        domain.SideCredit,
			Description: "Roof patch",
			EntryDate:   march,
			PostedBy:    "manager",
		},
	)
	if err != nil {
		t.Fatalf("posting expense: %v", err)
	}

	stmt, err := reports.GenerateIncomeStatement(
		context.Background(),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stmt.TotalIncome.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("income = %s, want 2000", stmt.TotalIncome)
	}
	if !stmt.TotalExpense.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expense = %s, want 300", stmt.TotalExpense)
	}
	if !stmt.NetIncome.Equal(decimal.NewFromInt(1700)) {
		t.Fatalf("net = %s, want 1700", stmt.NetIncome)
	}
}
