package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID          string          `json:"id"`
	AccountCode string          `json:"account_code"`
	Amount      decimal.Decimal `json:"amount"`
	Side        string          `json:"side"`
	Description string          `json:"description"`
	EntryDate   time.Time       `json:"entry_date"`
	LeaseID     *string         `json:"lease_id,omitempty"`
	TransferID  *string         `json:"transfer_id,omitempty"`
	PostedBy    string          `json:"posted_by"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		AccountCode: e.AccountCode,
		Amount:      e.Amount,
		Side:        string(e.Side),
		Description: e.Description,
		EntryDate:   e.EntryDate,
		LeaseID:     e.LeaseID,
		TransferID:  e.TransferID,
		PostedBy:    e.PostedBy,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// DoubleEntryResponse pairs the two entries of a balanced posting.
type DoubleEntryResponse struct {
	Debit  *EntryResponse `json:"debit"`
	Credit *EntryResponse `json:"credit"`
}

// DoubleEntryFromUseCase converts a posted pair to a response.
func DoubleEntryFromUseCase(d *usecase.DoubleEntry) *DoubleEntryResponse {
	return &DoubleEntryResponse{
		Debit:  EntryFromDomain(d.Debit),
		Credit: EntryFromDomain(d.Credit),
	}
}

// ChargeFailureResponse reports one failed charge in a batch.
type ChargeFailureResponse struct {
	LeaseID string `json:"lease_id"`
	Error   string `json:"error"`
}

// BatchResultResponse reports the outcome of a charge batch.
type BatchResultResponse struct {
	Posted []*DoubleEntryResponse  `json:"posted"`
	Failed []ChargeFailureResponse `json:"failed"`
}

// BatchResultFromUseCase converts a batch result to a response.
func BatchResultFromUseCase(r *usecase.BatchResult) *BatchResultResponse {
	resp := &BatchResultResponse{
		Posted: make([]*DoubleEntryResponse, len(r.Posted)),
		Failed: make([]ChargeFailureResponse, len(r.Failed)),
	}
	for i, d := range r.Posted {
		resp.Posted[i] = DoubleEntryFromUseCase(d)
	}
	for i, f := range r.Failed {
		resp.Failed[i] = ChargeFailureResponse{
			LeaseID: f.Charge.LeaseID,
			Error:   f.Err.Error(),
		}
	}
	return resp
}

// TransferResponse represents a cash-in-transit transfer in API responses.
type TransferResponse struct {
	ID          string          `json:"id"`
	LeaseID     string          `json:"lease_id"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference"`
	Status      string          `json:"status"`
	InitiatedBy string          `json:"initiated_by"`
	InitiatedAt time.Time       `json:"initiated_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// TransferFromDomain converts a domain transfer to a response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:          t.ID,
		LeaseID:     t.LeaseID,
		Amount:      t.Amount,
		Reference:   t.Reference,
		Status:      string(t.Status),
		InitiatedBy: t.InitiatedBy,
		InitiatedAt: t.InitiatedAt,
		CompletedAt: t.CompletedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	result := make([]*TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferFromDomain(t)
	}
	return result
}

// ReconciliationResponse represents a reconciliation in API responses.
type ReconciliationResponse struct {
	ID               string          `json:"id"`
	BankAccountID    string          `json:"bank_account_id"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	StatementBalance decimal.Decimal `json:"statement_balance"`
	Status           string          `json:"status"`
	FinalizedAt      *time.Time      `json:"finalized_at,omitempty"`
	FinalizedBy      string          `json:"finalized_by,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ReconciliationFromDomain converts a domain reconciliation to a response.
func ReconciliationFromDomain(r *domain.Reconciliation) *ReconciliationResponse {
	return &ReconciliationResponse{
		ID:               r.ID,
		BankAccountID:    r.BankAccountID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		StatementBalance: r.StatementBalance,
		Status:           string(r.Status),
		FinalizedAt:      r.FinalizedAt,
		FinalizedBy:      r.FinalizedBy,
		CreatedAt:        r.CreatedAt,
	}
}

// LineResponse represents a statement line in API responses.
type LineResponse struct {
	ID              string          `json:"id"`
	LineDate        time.Time       `json:"line_date"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Reference       string          `json:"reference,omitempty"`
	Status          string          `json:"status"`
	LedgerEntryID   *string         `json:"ledger_entry_id,omitempty"`
	MatchedAt       *time.Time      `json:"matched_at,omitempty"`
	MatchConfidence string          `json:"match_confidence,omitempty"`
}

// LineFromDomain converts a domain line to a response.
func LineFromDomain(l *domain.ReconciliationLine) *LineResponse {
	return &LineResponse{
		ID:              l.ID,
		LineDate:        l.LineDate,
		Description:     l.Description,
		Amount:          l.Amount,
		Reference:       l.Reference,
		Status:          string(l.Status),
		LedgerEntryID:   l.LedgerEntryID,
		MatchedAt:       l.MatchedAt,
		MatchConfidence: l.MatchConfidence,
	}
}

// LinesFromDomain converts domain lines to responses.
func LinesFromDomain(lines []*domain.ReconciliationLine) []*LineResponse {
	result := make([]*LineResponse, len(lines))
	for i, l := range lines {
		result[i] = LineFromDomain(l)
	}
	return result
}

// VendorResponse represents a vendor in API responses.
type VendorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VendorFromDomain converts a domain vendor to a response.
func VendorFromDomain(v *domain.Vendor) *VendorResponse {
	return &VendorResponse{
		ID:        v.ID,
		Name:      v.Name,
		Category:  v.Category,
		CreatedAt: v.CreatedAt,
	}
}

// RecordEntryResponse reports the result of recording a statement line.
type RecordEntryResponse struct {
	CashEntry *EntryResponse  `json:"cash_entry"`
	Line      *LineResponse   `json:"line"`
	Vendor    *VendorResponse `json:"vendor,omitempty"`
}

// RecordEntryFromUseCase converts a record result to a response.
func RecordEntryFromUseCase(r *usecase.RecordEntryResult) *RecordEntryResponse {
	resp := &RecordEntryResponse{
		CashEntry: EntryFromDomain(r.CashEntry),
		Line:      LineFromDomain(r.Line),
	}
	if r.CreatedVendor != nil {
		resp.Vendor = VendorFromDomain(r.CreatedVendor)
	}
	return resp
}

// BalanceResponse represents an account or lease balance.
type BalanceResponse struct {
	AccountCode string          `json:"account_code,omitempty"`
	LeaseID     string          `json:"lease_id,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceRowResponse represents one trial balance row.
type TrialBalanceRowResponse struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Type        string          `json:"type"`
	Debits      decimal.Decimal `json:"debits"`
	Credits     decimal.Decimal `json:"credits"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse represents a trial balance report.
type TrialBalanceResponse struct {
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebits  decimal.Decimal           `json:"total_debits"`
	TotalCredits decimal.Decimal           `json:"total_credits"`
	Balanced     bool                      `json:"balanced"`
	AsOf         time.Time                 `json:"as_of"`
}

// TrialBalanceFromUseCase converts a trial balance to a response.
func TrialBalanceFromUseCase(tb *usecase.TrialBalance) *TrialBalanceResponse {
	resp := &TrialBalanceResponse{
		Rows:         make([]TrialBalanceRowResponse, len(tb.Rows)),
		TotalDebits:  tb.TotalDebits,
		TotalCredits: tb.TotalCredits,
		Balanced:     tb.Balanced,
		AsOf:         tb.AsOf,
	}
	for i, row := range tb.Rows {
		resp.Rows[i] = TrialBalanceRowResponse{
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			Type:        string(row.Type),
			Debits:      row.Debits,
			Credits:     row.Credits,
			Balance:     row.Balance,
		}
	}
	return resp
}

// AgedReceivableResponse represents one lease's aged receivable buckets.
type AgedReceivableResponse struct {
	LeaseID     string                     `json:"lease_id"`
	Buckets     map[string]decimal.Decimal `json:"buckets"`
	Outstanding decimal.Decimal            `json:"outstanding"`
}

// AgedReceivablesFromUseCase converts an aged receivables report to responses.
func AgedReceivablesFromUseCase(rows []*usecase.AgedReceivable) []*AgedReceivableResponse {
	result := make([]*AgedReceivableResponse, len(rows))
	for i, r := range rows {
		result[i] = &AgedReceivableResponse{
			LeaseID:     r.LeaseID,
			Buckets:     r.Buckets,
			Outstanding: r.Outstanding,
		}
	}
	return result
}

// IncomeStatementResponse represents an income statement report.
type IncomeStatementResponse struct {
	From         time.Time                  `json:"from"`
	To           time.Time                  `json:"to"`
	Income       map[string]decimal.Decimal `json:"income"`
	Expenses     map[string]decimal.Decimal `json:"expenses"`
	TotalIncome  decimal.Decimal            `json:"total_income"`
	TotalExpense decimal.Decimal            `json:"total_expense"`
	NetIncome    decimal.Decimal            `json:"net_income"`
}

// IncomeStatementFromUseCase converts an income statement to a response.
func IncomeStatementFromUseCase(s *usecase.IncomeStatement) *IncomeStatementResponse {
	return &IncomeStatementResponse{
		From:         s.From,
		To:           s.To,
		Income:       s.Income,
		Expenses:     s.Expenses,
		TotalIncome:  s.TotalIncome,
		TotalExpense: s.TotalExpense,
		NetIncome:    s.NetIncome,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
