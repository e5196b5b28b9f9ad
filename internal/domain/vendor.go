package domain

import "time"

// Vendor is a payee referenced by expense entries. Vendors may be created
// inline while recording a reconciliation expense.
type Vendor struct {
	ID        string
	Name      string
	Category  string
	CreatedAt time.Time
}

// Validate checks vendor fields.
func (v *Vendor) Validate() error {
	return ValidateAccountName(v.Name)
}
