package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

// CreateAccountRequest represents a request to create a ledger account.
type CreateAccountRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// PostEntryRequest represents one side of a posting.
type PostEntryRequest struct {
	AccountCode    string          `json:"account_code"`
	Amount         decimal.Decimal `json:"amount"`
	Side           string          `json:"side"`
	Description    string          `json:"description"`
	EntryDate      time.Time       `json:"entry_date"`
	LeaseID        *string         `json:"lease_id,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// ToSpec converts to a domain entry spec. The acting user comes from the
// request context, not the body.
func (r *PostEntryRequest) ToSpec(postedBy string) domain.EntrySpec {
	return domain.EntrySpec{
		AccountCode:    r.AccountCode,
		Amount:         r.Amount,
		Side:           domain.Side(r.Side),
		Description:    r.Description,
		EntryDate:      r.EntryDate,
		LeaseID:        r.LeaseID,
		PostedBy:       postedBy,
		IdempotencyKey: r.IdempotencyKey,
	}
}

// PostDoubleEntryRequest represents a balanced debit/credit pair.
type PostDoubleEntryRequest struct {
	Debit  PostEntryRequest `json:"debit"`
	Credit PostEntryRequest `json:"credit"`
}

// ChargeItem represents a single charge in a batch.
type ChargeItem struct {
	LeaseID        string          `json:"lease_id"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	EntryDate      time.Time       `json:"entry_date"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	DebitAccount   string          `json:"debit_account,omitempty"`
	CreditAccount  string          `json:"credit_account,omitempty"`
}

// PostChargeBatchRequest represents a batch of scheduled charges.
type PostChargeBatchRequest struct {
	Charges []ChargeItem `json:"charges"`
}

// ToSpecs converts to use case charge specs.
func (r *PostChargeBatchRequest) ToSpecs(postedBy string) []usecase.ChargeSpec {
	specs := make([]usecase.ChargeSpec, len(r.Charges))
	for i, c := range r.Charges {
		specs[i] = usecase.ChargeSpec{
			LeaseID:        c.LeaseID,
			Amount:         c.Amount,
			Description:    c.Description,
			EntryDate:      c.EntryDate,
			PostedBy:       postedBy,
			IdempotencyKey: c.IdempotencyKey,
			DebitAccount:   c.DebitAccount,
			CreditAccount:  c.CreditAccount,
		}
	}
	return specs
}

// InitiateTransferRequest represents a request to start a cash-in-transit
// transfer.
type InitiateTransferRequest struct {
	LeaseID   string          `json:"lease_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference"`
	EntryDate time.Time       `json:"entry_date"`
}

// ToUseCaseInput converts to use case input.
func (r *InitiateTransferRequest) ToUseCaseInput(initiatedBy string) usecase.InitiateTransferInput {
	return usecase.InitiateTransferInput{
		LeaseID:     r.LeaseID,
		Amount:      r.Amount,
		Reference:   r.Reference,
		EntryDate:   r.EntryDate,
		InitiatedBy: initiatedBy,
	}
}

// StatementLine represents a single bank statement line on import.
type StatementLine struct {
	LineDate    time.Time       `json:"line_date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Reference   string          `json:"reference,omitempty"`
}

// ImportStatementRequest represents a bank statement import.
type ImportStatementRequest struct {
	BankAccountID    string          `json:"bank_account_id"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	StatementBalance decimal.Decimal `json:"statement_balance"`
	Lines            []StatementLine `json:"lines"`
}

// ToUseCaseInput converts to use case input.
func (r *ImportStatementRequest) ToUseCaseInput() usecase.ImportStatementInput {
	lines := make([]domain.LineSpec, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.LineSpec{
			LineDate:    l.LineDate,
			Description: l.Description,
			Amount:      l.Amount,
			Reference:   l.Reference,
		}
	}
	return usecase.ImportStatementInput{
		BankAccountID:    r.BankAccountID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		StatementBalance: r.StatementBalance,
		Lines:            lines,
	}
}

// NewVendorRequest describes a vendor to create alongside an expense.
type NewVendorRequest struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// RecordEntryRequest represents a request to record a payment or expense
// against a statement line.
type RecordEntryRequest struct {
	Type        string            `json:"type"`
	LineID      string            `json:"line_id"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description"`
	EntryDate   time.Time         `json:"entry_date"`
	LeaseID     string            `json:"lease_id,omitempty"`
	AccountCode string            `json:"account_code,omitempty"`
	VendorID    string            `json:"vendor_id,omitempty"`
	NewVendor   *NewVendorRequest `json:"new_vendor,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordEntryRequest) ToUseCaseInput(reconciliationID, recordedBy string) usecase.RecordEntryInput {
	input := usecase.RecordEntryInput{
		ReconciliationID: reconciliationID,
		Type:             r.Type,
		LineID:           r.LineID,
		Amount:           r.Amount,
		Description:      r.Description,
		EntryDate:        r.EntryDate,
		LeaseID:          r.LeaseID,
		AccountCode:      r.AccountCode,
		VendorID:         r.VendorID,
		RecordedBy:       recordedBy,
	}
	if r.NewVendor != nil {
		input.NewVendor = &usecase.NewVendorInput{
			Name:     r.NewVendor.Name,
			Category: r.NewVendor.Category,
		}
	}
	return input
}
