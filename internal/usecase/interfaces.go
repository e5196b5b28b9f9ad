package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
// There is deliberately no delete: accounts are deactivated, never removed.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	GetByCodeTx(ctx context.Context, tx Transaction, code string) (*domain.Account, error)
	SetActive(ctx context.Context, tx Transaction, code string, active bool, updatedAt time.Time) error
	List(ctx context.Context, activeOnly bool) ([]*domain.Account, error)
}

// EntryFilter selects ledger entries for reads and aggregation.
type EntryFilter struct {
	AccountCode string
	LeaseID     string
	TransferID  string
	Status      domain.EntryStatus
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// EntryRepository defines data access for ledger entries. The interface has
// no delete operation; the POSTED -> VOID status flip is the only mutation.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	GetByIdempotencyKey(ctx context.Context, tx Transaction, key string) (*domain.Entry, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.EntryStatus) error
	List(ctx context.Context, filter EntryFilter) ([]*domain.Entry, error)
	// SumByFilter returns total debit and credit amounts over the filtered
	// entries. Balance math on top of the two sums lives in the usecases.
	SumByFilter(ctx context.Context, filter EntryFilter) (debits, credits decimal.Decimal, err error)
}

// TransferRepository defines data access for cash-in-transit transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transfer, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.TransferStatus, completedAt *time.Time) error
	ListByLease(ctx context.Context, leaseID string, limit, offset int) ([]*domain.Transfer, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Transfer, error)
}

// ReconciliationRepository defines data access for reconciliations and their
// statement lines.
type ReconciliationRepository interface {
	Create(ctx context.Context, tx Transaction, rec *domain.Reconciliation) error
	GetByID(ctx context.Context, id string) (*domain.Reconciliation, error)
	GetByIDForShare(ctx context.Context, tx Transaction, id string) (*domain.Reconciliation, error)
	Finalize(ctx context.Context, tx Transaction, id, by string, at time.Time) error
	CreateLine(ctx context.Context, tx Transaction, line *domain.ReconciliationLine) error
	GetLineByID(ctx context.Context, id string) (*domain.ReconciliationLine, error)
	GetLineByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.ReconciliationLine, error)
	UpdateLineMatched(ctx context.Context, tx Transaction, line *domain.ReconciliationLine) error
	ListLines(ctx context.Context, reconciliationID string) ([]*domain.ReconciliationLine, error)
}

// VendorRepository defines data access for vendors.
type VendorRepository interface {
	Create(ctx context.Context, tx Transaction, vendor *domain.Vendor) error
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for derived read-side values.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles HTTP-level idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
