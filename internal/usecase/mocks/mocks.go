package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByCodeFunc   func(ctx context.Context, code string) (*domain.Account, error)
	GetByCodeTxFunc func(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error)
	SetActiveFunc   func(ctx context.Context, tx usecase.Transaction, code string, active bool, updatedAt time.Time) error
	ListFunc        func(ctx context.Context, activeOnly bool) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Code]; ok {
		return domain.ErrAccountAlreadyExists
	}
	m.accounts[account.Code] = account
	return nil
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[code]; ok {
		return acc, nil
	}
	return nil, domain.ErrUnknownAccount
}

func (m *MockAccountRepository) GetByCodeTx(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error) {
	if m.GetByCodeTxFunc != nil {
		return m.GetByCodeTxFunc(ctx, tx, code)
	}
	return m.GetByCode(ctx, code)
}

func (m *MockAccountRepository) SetActive(ctx context.Context, tx usecase.Transaction, code string, active bool, updatedAt time.Time) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, tx, code, active, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[code]
	if !ok {
		return domain.ErrUnknownAccount
	}
	acc.Active = active
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, activeOnly)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if activeOnly && !acc.Active {
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// Seed inserts accounts without going through Create, for test setup.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range accounts {
		m.accounts[acc.Code] = acc
	}
}

// MockEntryRepository is a mock implementation of EntryRepository. List and
// SumByFilter apply the filter against the stored entries so aggregation
// logic can be exercised without a database.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry
	byKey   map[string]*domain.Entry

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, tx usecase.Transaction, key string) (*domain.Entry, error)
	UpdateStatusFunc        func(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus) error
	ListFunc                func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error)
	SumByFilterFunc         func(ctx context.Context, filter usecase.EntryFilter) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.Entry),
		byKey:   make(map[string]*domain.Entry),
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	if entry.IdempotencyKey != "" {
		m.byKey[entry.IdempotencyKey] = entry
	}
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockEntryRepository) GetByIdempotencyKey(ctx context.Context, tx usecase.Transaction, key string) (*domain.Entry, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, tx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.byKey[key]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	e.Status = status
	return nil
}

func (m *MockEntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if matchesFilter(e, filter) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) SumByFilter(ctx context.Context, filter usecase.EntryFilter) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumByFilterFunc != nil {
		return m.SumByFilterFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	debits, credits := decimal.Zero, decimal.Zero
	for _, e := range m.entries {
		if !matchesFilter(e, filter) {
			continue
		}
		if e.Side == domain.SideDebit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}
	return debits, credits, nil
}

func matchesFilter(e *domain.Entry, filter usecase.EntryFilter) bool {
	if filter.AccountCode != "" && e.AccountCode != filter.AccountCode {
		return false
	}
	if filter.LeaseID != "" && (e.LeaseID == nil || *e.LeaseID != filter.LeaseID) {
		return false
	}
	if filter.TransferID != "" && (e.TransferID == nil || *e.TransferID != filter.TransferID) {
		return false
	}
	if filter.Status != "" && e.Status != filter.Status {
		return false
	}
	if filter.From != nil && e.EntryDate.Before(*filter.From) {
		return false
	}
	if filter.To != nil && e.EntryDate.After(*filter.To) {
		return false
	}
	return true
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer

	CreateFunc               func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Transfer, error)
	GetByIDForUpdateFunc     func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error)
	UpdateStatusFunc         func(ctx context.Context, tx usecase.Transaction, id string, status domain.TransferStatus, completedAt *time.Time) error
	ListByLeaseFunc          func(ctx context.Context, leaseID string, limit, offset int) ([]*domain.Transfer, error)
	ListPendingOlderThanFunc func(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Transfer, error)
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.Transfer),
	}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transfers[id]; ok {
		return t, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransferStatus, completedAt *time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, completedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transfers[id]
	if !ok {
		return domain.ErrTransferNotFound
	}
	t.Status = status
	t.CompletedAt = completedAt
	return nil
}

func (m *MockTransferRepository) ListByLease(ctx context.Context, leaseID string, limit, offset int) ([]*domain.Transfer, error) {
	if m.ListByLeaseFunc != nil {
		return m.ListByLeaseFunc(ctx, leaseID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.Transfer
	for _, t := range m.transfers {
		if t.LeaseID == leaseID {
			transfers = append(transfers, t)
		}
	}
	return transfers, nil
}

func (m *MockTransferRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Transfer, error) {
	if m.ListPendingOlderThanFunc != nil {
		return m.ListPendingOlderThanFunc(ctx, cutoff, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transfers []*domain.Transfer
	for _, t := range m.transfers {
		if t.Status == domain.TransferStatusPending && t.InitiatedAt.Before(cutoff) {
			transfers = append(transfers, t)
		}
	}
	return transfers, nil
}

// MockReconciliationRepository is a mock implementation of ReconciliationRepository.
type MockReconciliationRepository struct {
	mu    sync.RWMutex
	recs  map[string]*domain.Reconciliation
	lines map[string]*domain.ReconciliationLine

	CreateFunc               func(ctx context.Context, tx usecase.Transaction, rec *domain.Reconciliation) error
	GetByIDFunc              func(ctx context.Context, id string) (*domain.Reconciliation, error)
	GetByIDForShareFunc      func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Reconciliation, error)
	FinalizeFunc             func(ctx context.Context, tx usecase.Transaction, id, by string, at time.Time) error
	CreateLineFunc           func(ctx context.Context, tx usecase.Transaction, line *domain.ReconciliationLine) error
	GetLineByIDFunc          func(ctx context.Context, id string) (*domain.ReconciliationLine, error)
	GetLineByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.ReconciliationLine, error)
	UpdateLineMatchedFunc    func(ctx context.Context, tx usecase.Transaction, line *domain.ReconciliationLine) error
	ListLinesFunc            func(ctx context.Context, reconciliationID string) ([]*domain.ReconciliationLine, error)
}

func NewMockReconciliationRepository() *MockReconciliationRepository {
	return &MockReconciliationRepository{
		recs:  make(map[string]*domain.Reconciliation),
		lines: make(map[string]*domain.ReconciliationLine),
	}
}

func (m *MockReconciliationRepository) Create(ctx context.Context, tx usecase.Transaction, rec *domain.Reconciliation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, rec)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.ID] = rec
	return nil
}

func (m *MockReconciliationRepository) GetByID(ctx context.Context, id string) (*domain.Reconciliation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.recs[id]; ok {
		return r, nil
	}
	return nil, domain.ErrReconciliationNotFound
}

func (m *MockReconciliationRepository) GetByIDForShare(ctx context.Context, tx usecase.Transaction, id string) (*domain.Reconciliation, error) {
	if m.GetByIDForShareFunc != nil {
		return m.GetByIDForShareFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockReconciliationRepository) Finalize(ctx context.Context, tx usecase.Transaction, id, by string, at time.Time) error {
	if m.FinalizeFunc != nil {
		return m.FinalizeFunc(ctx, tx, id, by, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok {
		return domain.ErrReconciliationNotFound
	}
	r.Status = domain.ReconciliationFinalized
	r.FinalizedAt = &at
	r.FinalizedBy = by
	return nil
}

func (m *MockReconciliationRepository) CreateLine(ctx context.Context, tx usecase.Transaction, line *domain.ReconciliationLine) error {
	if m.CreateLineFunc != nil {
		return m.CreateLineFunc(ctx, tx, line)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines[line.ID] = line
	return nil
}

func (m *MockReconciliationRepository) GetLineByID(ctx context.Context, id string) (*domain.ReconciliationLine, error) {
	if m.GetLineByIDFunc != nil {
		return m.GetLineByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.lines[id]; ok {
		return l, nil
	}
	return nil, domain.ErrLineNotFound
}

func (m *MockReconciliationRepository) GetLineByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ReconciliationLine, error) {
	if m.GetLineByIDForUpdateFunc != nil {
		return m.GetLineByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetLineByID(ctx, id)
}

func (m *MockReconciliationRepository) UpdateLineMatched(ctx context.Context, tx usecase.Transaction, line *domain.ReconciliationLine) error {
	if m.UpdateLineMatchedFunc != nil {
		return m.UpdateLineMatchedFunc(ctx, tx, line)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lines[line.ID]; !ok {
		return domain.ErrLineNotFound
	}
	m.lines[line.ID] = line
	return nil
}

func (m *MockReconciliationRepository) ListLines(ctx context.Context, reconciliationID string) ([]*domain.ReconciliationLine, error) {
	if m.ListLinesFunc != nil {
		return m.ListLinesFunc(ctx, reconciliationID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var lines []*domain.ReconciliationLine
	for _, l := range m.lines {
		if l.ReconciliationID == reconciliationID {
			lines = append(lines, l)
		}
	}
	return lines, nil
}

// MockVendorRepository is a mock implementation of VendorRepository.
type MockVendorRepository struct {
	mu      sync.RWMutex
	vendors map[string]*domain.Vendor

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, vendor *domain.Vendor) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Vendor, error)
}

func NewMockVendorRepository() *MockVendorRepository {
	return &MockVendorRepository{
		vendors: make(map[string]*domain.Vendor),
	}
}

func (m *MockVendorRepository) Create(ctx context.Context, tx usecase.Transaction, vendor *domain.Vendor) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, vendor)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vendors[vendor.ID] = vendor
	return nil
}

func (m *MockVendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.vendors[id]; ok {
		return v, nil
	}
	return nil, domain.ErrVendorNotFound
}

// Count reports how many vendors are stored, for atomicity assertions.
func (m *MockVendorRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vendors)
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
		}
		if limit > 0 && len(events) >= limit {
			break
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// Events returns a snapshot of everything written to the outbox.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc   func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListFunc     func(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.ResourceID != "" && l.ResourceID != filter.ResourceID {
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

