package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. Entries are append-only
// rows; the POSTED -> VOID flip is the only UPDATE this repository issues.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const entryColumns = `
	id, account_code, amount, side, description, entry_date,
	lease_id, transfer_id, posted_by, status, idempotency_key, created_at`

const insertEntrySQL = `
	INSERT INTO entries (
		id, account_code, amount, side, description, entry_date,
		lease_id, transfer_id, posted_by, status, idempotency_key, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// Create inserts a ledger entry. The unique index on idempotency_key is the
// last line of defense against concurrent duplicate postings; the usecase
// normally catches duplicates with a lookup first.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertEntrySQL,
		entry.ID,
		entry.AccountCode,
		decimalToNumeric(entry.Amount),
		string(entry.Side),
		entry.Description,
		entry.EntryDate,
		ptrToPgText(entry.LeaseID),
		ptrToPgText(entry.TransferID),
		entry.PostedBy,
		string(entry.Status),
		entry.IdempotencyKey,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT` + entryColumns + ` FROM entries WHERE id = $1`

	return scanEntry(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves an entry with a FOR UPDATE lock so a concurrent
// void of the same entry serializes behind this one.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT` + entryColumns + ` FROM entries WHERE id = $1 FOR UPDATE`

	return scanEntry(pgxTx.QueryRow(ctx, query, id))
}

// GetByIdempotencyKey looks up the entry a key already produced, if any.
func (r *EntryRepository) GetByIdempotencyKey(ctx context.Context, tx usecase.Transaction, key string) (*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT` + entryColumns + ` FROM entries WHERE idempotency_key = $1`

	return scanEntry(pgxTx.QueryRow(ctx, query, key))
}

// UpdateStatus flips an entry's status.
func (r *EntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.EntryStatus) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE entries SET status = $2 WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List returns entries matching the filter, newest first.
func (r *EntryRepository) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.Entry, error) {
	where, args := buildEntryFilter(filter)

	query := `SELECT` + entryColumns + ` FROM entries` + where +
		` ORDER BY entry_date DESC, created_at DESC`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SumByFilter aggregates debit and credit totals over the filtered entries in
// one query. Balances are always computed this way, never stored.
func (r *EntryRepository) SumByFilter(ctx context.Context, filter usecase.EntryFilter) (decimal.Decimal, decimal.Decimal, error) {
	where, args := buildEntryFilter(filter)

	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE side = 'DR'), 0),
			COALESCE(SUM(amount) FILTER (WHERE side = 'CR'), 0)
		FROM entries` + where

	var debits, credits pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(debits), numericToDecimal(credits), nil
}

func buildEntryFilter(filter usecase.EntryFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.AccountCode != "" {
		add("account_code = $%d", filter.AccountCode)
	}
	if filter.LeaseID != "" {
		add("lease_id = $%d", filter.LeaseID)
	}
	if filter.TransferID != "" {
		add("transfer_id = $%d", filter.TransferID)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.From != nil {
		add("entry_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("entry_date <= $%d", *filter.To)
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		entry        domain.Entry
		amount       pgtype.Numeric
		side, status string
		leaseID      pgtype.Text
		transferID   pgtype.Text
		entryDate    time.Time
		createdAt    pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.AccountCode,
		&amount,
		&side,
		&entry.Description,
		&entryDate,
		&leaseID,
		&transferID,
		&entry.PostedBy,
		&status,
		&entry.IdempotencyKey,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	entry.Amount = numericToDecimal(amount)
	entry.Side = domain.Side(side)
	entry.Status = domain.EntryStatus(status)
	entry.EntryDate = entryDate
	entry.LeaseID = pgTextToPtr(leaseID)
	entry.TransferID = pgTextToPtr(transferID)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
