package domain

import "time"

// AccountType classifies a chart-of-accounts entry.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeExpense   AccountType = "EXPENSE"
	AccountTypeEquity    AccountType = "EQUITY"
)

// Side is one of the two sides of a double-entry posting.
type Side string

const (
	SideDebit  Side = "DR"
	SideCredit Side = "CR"
)

// Valid reports whether s is DR or CR.
func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// NormalBalance returns the side on which an account of this type grows.
// The mapping is total over the closed AccountType set.
func (t AccountType) NormalBalance() Side {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	case AccountTypeLiability, AccountTypeIncome, AccountTypeEquity:
		return SideCredit
	}

	// Unreachable for accounts constructed through NewAccount.
	return SideDebit
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeIncome,
		AccountTypeExpense, AccountTypeEquity:
		return true
	}

	return false
}

// Account is one row of the chart of accounts. Accounts are never deleted;
// retiring one means flipping Active off so historical entries keep a valid
// reference.
type Account struct {
	Code      string
	Name      string
	Type      AccountType
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount builds an active account after validating code, name and type.
func NewAccount(code, name string, accountType AccountType, now time.Time) (*Account, error) {
	if err := ValidateAccountCode(code); err != nil {
		return nil, err
	}

	if err := ValidateAccountName(name); err != nil {
		return nil, err
	}

	if !accountType.Valid() {
		return nil, ErrInvalidAccountType
	}

	return &Account{
		Code:      code,
		Name:      name,
		Type:      accountType,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NormalBalance returns the account's normal balance side.
func (a *Account) NormalBalance() Side {
	return a.Type.NormalBalance()
}
