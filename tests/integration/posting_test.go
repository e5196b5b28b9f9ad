package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/propledger/propledger/internal/adapter/repository/postgres"
	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
	"github.com/propledger/propledger/tests/testutil"
)

func setupLedger(t *testing.T, db *testutil.TestDB) (*usecase.LedgerUseCase, *usecase.AccountUseCase, *usecase.ReportUseCase) {
	t.Helper()

	txManager := postgres.NewTxManager(db.Pool)
	accountRepo := postgres.NewAccountRepository(db.Pool)
	entryRepo := postgres.NewEntryRepository(db.Pool)
	auditRepo := postgres.NewAuditRepository(db.Pool)
	idGen := postgres.NewULIDGenerator()

	ledgerUC := usecase.NewLedgerUseCase(
		txManager,
		postgres.NewRetrier(),
		accountRepo,
		entryRepo,
		postgres.NewNullOutboxRepository(),
		auditRepo,
		idGen,
	)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, auditRepo, idGen)
	reportUC := usecase.NewReportUseCase(accountRepo, entryRepo, nil)

	return ledgerUC, accountUC, reportUC
}

func TestPostingRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	ledgerUC, accountUC, reportUC := setupLedger(t, testDB)

	_, err := accountUC.SeedDefaults(ctx, "test")
	require.NoError(t, err)

	leaseID := "lease-integration-1"
	entryDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	debit := domain.EntrySpec{
		AccountCode: domain.AccountReceivable,
		Amount:      decimal.NewFromInt(1500),
		Side:        domain.SideDebit,
		Description: "March rent",
		EntryDate:   entryDate,
		LeaseID:     &leaseID,
		PostedBy:    "test",
	}
	credit := domain.EntrySpec{
		AccountCode: domain.AccountRentIncome,
		Amount:      decimal.NewFromInt(1500),
		Side:        domain.SideCredit,
		Description: "March rent",
		EntryDate:   entryDate,
		LeaseID:     &leaseID,
		PostedBy:    "test",
	}

	pair, err := ledgerUC.PostDoubleEntry(ctx, debit, credit)
	require.NoError(t, err)
	require.Equal(t, domain.EntryStatusPosted, pair.Debit.Status)

	// Posting the same pair again must not duplicate.
	again, err := ledgerUC.PostDoubleEntry(ctx, debit, credit)
	require.NoError(t, err)
	require.Equal(t, pair.Debit.ID, again.Debit.ID)
	require.Equal(t, pair.Credit.ID, again.Credit.ID)

	balance, err := reportUC.LeaseBalance(ctx, leaseID)
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.NewFromInt(1500)), "expected 1500, got %s", balance)

	tb, err := reportUC.GenerateTrialBalance(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, tb.Balanced)
}

func TestVoidExcludedFromBalances(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	ledgerUC, accountUC, reportUC := setupLedger(t, testDB)

	_, err := accountUC.SeedDefaults(ctx, "test")
	require.NoError(t, err)

	leaseID := "lease-integration-2"
	specs := []usecase.ChargeSpec{{
		LeaseID:     leaseID,
		Amount:      decimal.NewFromInt(900),
		Description: "April rent",
		EntryDate:   time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		PostedBy:    "test",
	}}

	result, err := ledgerUC.PostChargeBatch(ctx, specs)
	require.NoError(t, err)
	require.Len(t, result.Posted, 1)
	require.Empty(t, result.Failed)

	_, err = ledgerUC.VoidEntry(ctx, result.Posted[0].Debit.ID, "test")
	require.NoError(t, err)
	_, err = ledgerUC.VoidEntry(ctx, result.Posted[0].Credit.ID, "test")
	require.NoError(t, err)

	balance, err := reportUC.LeaseBalance(ctx, leaseID)
	require.NoError(t, err)
	require.True(t, balance.IsZero(), "expected zero after void, got %s", balance)
}
