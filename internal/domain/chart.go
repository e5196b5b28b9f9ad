package domain

// Well-known account codes referenced by the posting primitives.
const (
	AccountOperatingCash   = "1000"
	AccountCashInTransit   = "1001"
	AccountReceivable      = "1200"
	AccountSecurityDeposit = "2000"
	AccountOwnerEquity     = "3000"
	AccountRentIncome      = "4000"
	AccountLateFeeIncome   = "4100"
	AccountRepairs         = "5000"
	AccountUtilities       = "5100"
	AccountManagementFees  = "5200"
)

// ChartEntry is one row of the default chart of accounts.
type ChartEntry struct {
	Code string
	Name string
	Type AccountType
}

// DefaultChart is the chart of accounts seeded for a new ledger.
// 1xxx assets, 2xxx liabilities, 3xxx equity, 4xxx income, 5xxx expenses.
var DefaultChart = []ChartEntry{
	{Code: AccountOperatingCash, Name: "Operating Cash", Type: AccountTypeAsset},
	{Code: AccountCashInTransit, Name: "Cash in Transit", Type: AccountTypeAsset},
	{Code: AccountReceivable, Name: "Accounts Receivable", Type: AccountTypeAsset},

	{Code: AccountSecurityDeposit, Name: "Security Deposits Held", Type: AccountTypeLiability},

	{Code: AccountOwnerEquity, Name: "Owner Equity", Type: AccountTypeEquity},

	{Code: AccountRentIncome, Name: "Rent Income", Type: AccountTypeIncome},
	{Code: AccountLateFeeIncome, Name: "Late Fee Income", Type: AccountTypeIncome},

	{Code: AccountRepairs, Name: "Repairs & Maintenance", Type: AccountTypeExpense},
	{Code: AccountUtilities, Name: "Utilities", Type: AccountTypeExpense},
	{Code: AccountManagementFees, Name: "Management Fees", Type: AccountTypeExpense},
}

// LookupChartEntry finds a default chart entry by code.
func LookupChartEntry(code string) *ChartEntry {
	for i := range DefaultChart {
		if DefaultChart[i].Code == code {
			return &DefaultChart[i]
		}
	}

	return nil
}
