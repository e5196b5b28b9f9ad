package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/domain"
)

// ReportUseCase derives balances and reports from posted entries. There is no
// stored running balance anywhere: every figure is an aggregate over the
// immutable entry store with VOID entries filtered out, which is what makes
// voiding and concurrent posting race-free.
type ReportUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	cache       Cache
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(accountRepo AccountRepository, entryRepo EntryRepository, cache Cache) *ReportUseCase {
	return &ReportUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		cache:       cache,
	}
}

// BalanceQuery filters the entries feeding a balance.
type BalanceQuery struct {
	AccountCode string
	LeaseID     string
	From        *time.Time
	To          *time.Time
}

// AccountBalance computes the balance of one account on its normal-balance
// side: debits minus credits for DR-normal accounts, the mirror for
// CR-normal ones.
func (uc *ReportUseCase) AccountBalance(ctx context.Context, q BalanceQuery) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByCode(ctx, q.AccountCode)
	if err != nil {
		return decimal.Zero, err
	}

	cacheKey := balanceCacheKey(q)
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey); err == nil {
			if balance, err := decimal.NewFromString(string(cached)); err == nil {
				return balance, nil
			}
		}
	}

	debits, credits, err := uc.entryRepo.SumByFilter(ctx, EntryFilter{
		AccountCode: q.AccountCode,
		LeaseID:     q.LeaseID,
		Status:      domain.EntryStatusPosted,
		From:        q.From,
		To:          q.To,
	})
	if err != nil {
		return decimal.Zero, err
	}

	balance := debits.Sub(credits)
	if account.NormalBalance() == domain.SideCredit {
		balance = credits.Sub(debits)
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, cacheKey, []byte(balance.String()), BalanceCacheTTL)
	}

	return balance, nil
}

// LeaseBalance is the lease's outstanding receivable: AR debits (charges)
// minus AR credits (payments and credits) scoped to the lease.
func (uc *ReportUseCase) LeaseBalance(ctx context.Context, leaseID string) (decimal.Decimal, error) {
	return uc.AccountBalance(ctx, BalanceQuery{
		AccountCode: domain.AccountReceivable,
		LeaseID:     leaseID,
	})
}

// TrialBalanceRow is one account's totals.
type TrialBalanceRow struct {
	AccountCode string
	AccountName string
	Type        domain.AccountType
	Debits      decimal.Decimal
	Credits     decimal.Decimal
	Balance     decimal.Decimal
}

// TrialBalance reports per-account totals plus the global check that posted
// debits equal posted credits.
type TrialBalance struct {
	Rows         []TrialBalanceRow
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
	Balanced     bool
	AsOf         time.Time
}

// GenerateTrialBalance aggregates every account as of a point in time.
func (uc *ReportUseCase) GenerateTrialBalance(ctx context.Context, asOf time.Time) (*TrialBalance, error) {
	accounts, err := uc.accountRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	tb := &TrialBalance{
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		AsOf:         asOf,
	}

	for _, account := range accounts {
		debits, credits, err := uc.entryRepo.SumByFilter(ctx, EntryFilter{
			AccountCode: account.Code,
			Status:      domain.EntryStatusPosted,
			To:          &asOf,
		})
		if err != nil {
			return nil, fmt.Errorf("trial balance for account %s: %w", account.Code, err)
		}

		balance := debits.Sub(credits)
		if account.NormalBalance() == domain.SideCredit {
			balance = credits.Sub(debits)
		}

		tb.Rows = append(tb.Rows, TrialBalanceRow{
			AccountCode: account.Code,
			AccountName: account.Name,
			Type:        account.Type,
			Debits:      debits,
			Credits:     credits,
			Balance:     balance,
		})

		tb.TotalDebits = tb.TotalDebits.Add(debits)
		tb.TotalCredits = tb.TotalCredits.Add(credits)
	}

	tb.Balanced = tb.TotalDebits.Equal(tb.TotalCredits)

	return tb, nil
}

// AgedBucket labels for receivable aging.
const (
	BucketCurrent = "0-30"
	Bucket31to60  = "31-60"
	Bucket61to90  = "61-90"
	BucketOver90  = "90+"
)

// AgedReceivable is one lease's outstanding balance split by charge age.
type AgedReceivable struct {
	LeaseID     string
	Buckets     map[string]decimal.Decimal
	Outstanding decimal.Decimal
}

// AgedReceivables buckets each lease's outstanding receivable by the age of
// the unpaid charges. Payments are applied against the oldest charges first.
func (uc *ReportUseCase) AgedReceivables(ctx context.Context, asOf time.Time) ([]*AgedReceivable, error) {
	entries, err := uc.entryRepo.List(ctx, EntryFilter{
		AccountCode: domain.AccountReceivable,
		Status:      domain.EntryStatusPosted,
		To:          &asOf,
	})
	if err != nil {
		return nil, err
	}

	type leaseEntries struct {
		charges []*domain.Entry
		paid    decimal.Decimal
	}

	byLease := make(map[string]*leaseEntries)

	for _, e := range entries {
		if e.LeaseID == nil {
			continue
		}

		le := byLease[*e.LeaseID]
		if le == nil {
			le = &leaseEntries{paid: decimal.Zero}
			byLease[*e.LeaseID] = le
		}

		if e.Side == domain.SideDebit {
			le.charges = append(le.charges, e)
		} else {
			le.paid = le.paid.Add(e.Amount)
		}
	}

	var report []*AgedReceivable

	for leaseID, le := range byLease {
		sort.Slice(le.charges, func(i, j int) bool {
			return le.charges[i].EntryDate.Before(le.charges[j].EntryDate)
		})

		aged := &AgedReceivable{
			LeaseID: leaseID,
			Buckets: map[string]decimal.Decimal{
				BucketCurrent: decimal.Zero,
				Bucket31to60:  decimal.Zero,
				Bucket61to90:  decimal.Zero,
				BucketOver90:  decimal.Zero,
			},
			Outstanding: decimal.Zero,
		}

		remaining := le.paid

		for _, charge := range le.charges {
			unpaid := charge.Amount

			if remaining.IsPositive() {
				applied := decimal.Min(remaining, unpaid)
				unpaid = unpaid.Sub(applied)
				remaining = remaining.Sub(applied)
			}

			if unpaid.IsZero() {
				continue
			}

			bucket := ageBucket(asOf.Sub(charge.EntryDate))
			aged.Buckets[bucket] = aged.Buckets[bucket].Add(unpaid)
			aged.Outstanding = aged.Outstanding.Add(unpaid)
		}

		if aged.Outstanding.IsPositive() {
			report = append(report, aged)
		}
	}

	sort.Slice(report, func(i, j int) bool {
		return report[i].LeaseID < report[j].LeaseID
	})

	return report, nil
}

// IncomeStatement is a profit-and-loss summary over a period.
type IncomeStatement struct {
	From         time.Time
	To           time.Time
	Income       map[string]decimal.Decimal
	Expenses     map[string]decimal.Decimal
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	NetIncome    decimal.Decimal
}

// GenerateIncomeStatement sums income and expense accounts over a period.
func (uc *ReportUseCase) GenerateIncomeStatement(ctx context.Context, from, to time.Time) (*IncomeStatement, error) {
	accounts, err := uc.accountRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}

	stmt := &IncomeStatement{
		From:         from,
		To:           to,
		Income:       make(map[string]decimal.Decimal),
		Expenses:     make(map[string]decimal.Decimal),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	for _, account := range accounts {
		if account.Type != domain.AccountTypeIncome && account.Type != domain.AccountTypeExpense {
			continue
		}

		debits, credits, err := uc.entryRepo.SumByFilter(ctx, EntryFilter{
			AccountCode: account.Code,
			Status:      domain.EntryStatusPosted,
			From:        &from,
			To:          &to,
		})
		if err != nil {
			return nil, err
		}

		if account.Type == domain.AccountTypeIncome {
			amount := credits.Sub(debits)
			stmt.Income[account.Code] = amount
			stmt.TotalIncome = stmt.TotalIncome.Add(amount)
		} else {
			amount := debits.Sub(credits)
			stmt.Expenses[account.Code] = amount
			stmt.TotalExpense = stmt.TotalExpense.Add(amount)
		}
	}

	stmt.NetIncome = stmt.TotalIncome.Sub(stmt.TotalExpense)

	return stmt, nil
}

// ListEntries is the read side behind the ledger and drill-down pages.
func (uc *ReportUseCase) ListEntries(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.entryRepo.List(ctx, filter)
}

func balanceCacheKey(q BalanceQuery) string {
	from, to := "", ""
	if q.From != nil {
		from = q.From.UTC().Format("2006-01-02")
	}
	if q.To != nil {
		to = q.To.UTC().Format("2006-01-02")
	}

	return fmt.Sprintf("balance:%s:%s:%s:%s", q.AccountCode, q.LeaseID, from, to)
}

func ageBucket(age time.Duration) string {
	days := int(age.Hours() / 24)

	switch {
	case days <= 30:
		return BucketCurrent
	case days <= 60:
		return Bucket31to60
	case days <= 90:
		return Bucket61to90
	default:
		return BucketOver90
	}
}
