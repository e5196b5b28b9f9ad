package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

// TransferRepository implements usecase.TransferRepository.
type TransferRepository struct {
	pool *pgxpool.Pool
}

// NewTransferRepository creates a new TransferRepository.
func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

const transferColumns = `
	id, lease_id, amount, reference, status, initiated_by, initiated_at, completed_at`

// Create inserts a transfer.
func (r *TransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transfers (
			id, lease_id, amount, reference, status, initiated_by, initiated_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		transfer.ID,
		transfer.LeaseID,
		decimalToNumeric(transfer.Amount),
		transfer.Reference,
		string(transfer.Status),
		transfer.InitiatedBy,
		timeToPgTimestamptz(transfer.InitiatedAt),
		ptrToPgTimestamptz(transfer.CompletedAt),
	)

	return err
}

// GetByID retrieves a transfer by ID.
func (r *TransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	query := `SELECT` + transferColumns + ` FROM transfers WHERE id = $1`

	return scanTransfer(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a transfer with a FOR UPDATE lock. Settle and
// reverse race through here; the lock makes the PENDING check decisive.
func (r *TransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transfer, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT` + transferColumns + ` FROM transfers WHERE id = $1 FOR UPDATE`

	return scanTransfer(pgxTx.QueryRow(ctx, query, id))
}

// UpdateStatus records a transfer's terminal state.
func (r *TransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransferStatus, completedAt *time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE transfers SET status = $2, completed_at = $3 WHERE id = $1`,
		id, string(status), ptrToPgTimestamptz(completedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransferNotFound
	}

	return nil
}

// ListByLease lists a lease's transfers, newest first.
func (r *TransferRepository) ListByLease(ctx context.Context, leaseID string, limit, offset int) ([]*domain.Transfer, error) {
	query := `SELECT` + transferColumns + `
		FROM transfers
		WHERE lease_id = $1
		ORDER BY initiated_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, leaseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransfers(rows)
}

// ListPendingOlderThan lists transfers stuck in PENDING since before cutoff,
// oldest first.
func (r *TransferRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Transfer, error) {
	query := `SELECT` + transferColumns + `
		FROM transfers
		WHERE status = $1 AND initiated_at < $2
		ORDER BY initiated_at
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, string(domain.TransferStatusPending), timeToPgTimestamptz(cutoff), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransfers(rows)
}

func collectTransfers(rows pgx.Rows) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, transfer)
	}

	return transfers, rows.Err()
}

func scanTransfer(row pgx.Row) (*domain.Transfer, error) {
	var (
		transfer    domain.Transfer
		amount      pgtype.Numeric
		status      string
		initiatedAt pgtype.Timestamptz
		completedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&transfer.ID,
		&transfer.LeaseID,
		&amount,
		&transfer.Reference,
		&status,
		&transfer.InitiatedBy,
		&initiatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	transfer.Amount = numericToDecimal(amount)
	transfer.Status = domain.TransferStatus(status)
	transfer.InitiatedAt = initiatedAt.Time
	transfer.CompletedAt = pgTimestamptzToPtr(completedAt)

	return &transfer, nil
}
