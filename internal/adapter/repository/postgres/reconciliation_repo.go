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

// ReconciliationRepository implements usecase.ReconciliationRepository.
type ReconciliationRepository struct {
	pool *pgxpool.Pool
}

// NewReconciliationRepository creates a new ReconciliationRepository.
func NewReconciliationRepository(pool *pgxpool.Pool) *ReconciliationRepository {
	return &ReconciliationRepository{pool: pool}
}

const reconciliationColumns = `
	id, bank_account_id, start_date, end_date, statement_balance,
	status, finalized_at, finalized_by, created_at`

// Create inserts a reconciliation.
func (r *ReconciliationRepository) Create(ctx context.Context, tx usecase.Transaction, rec *domain.Reconciliation) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO reconciliations (
			id, bank_account_id, start_date, end_date, statement_balance,
			status, finalized_at, finalized_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID,
		rec.BankAccountID,
		rec.StartDate,
		rec.EndDate,
		decimalToNumeric(rec.StatementBalance),
		string(rec.Status),
		ptrToPgTimestamptz(rec.FinalizedAt),
		stringToPgText(rec.FinalizedBy),
		timeToPgTimestamptz(rec.CreatedAt),
	)

	return err
}

// GetByID retrieves a reconciliation by ID.
func (r *ReconciliationRepository) GetByID(ctx context.Context, id string) (*domain.Reconciliation, error) {
	query := `SELECT` + reconciliationColumns + ` FROM reconciliations WHERE id = $1`

	return scanReconciliation(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForShare retrieves a reconciliation under a share lock. The lock
// conflicts with Finalize's row update, so a reconciliation sighted as
// IN_PROGRESS through here stays IN_PROGRESS until the holder commits.
func (r *ReconciliationRepository) GetByIDForShare(ctx context.Context, tx usecase.Transaction, id string) (*domain.Reconciliation, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT` + reconciliationColumns + ` FROM reconciliations WHERE id = $1 FOR SHARE`

	return scanReconciliation(pgxTx.QueryRow(ctx, query, id))
}

// Finalize marks a reconciliation FINALIZED. The WHERE clause on status makes
// the transition race-safe: a second finalize affects zero rows.
func (r *ReconciliationRepository) Finalize(ctx context.Context, tx usecase.Transaction, id, by string, at time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE reconciliations
		SET status = $2, finalized_by = $3, finalized_at = $4
		WHERE id = $1 AND status = $5`,
		id,
		string(domain.ReconciliationFinalized),
		by,
		timeToPgTimestamptz(at),
		string(domain.ReconciliationInProgress),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrReconciliationFinalized
	}

	return nil
}

const lineColumns = `
	id, reconciliation_id, line_date, description, amount, reference,
	status, ledger_entry_id, matched_at, match_confidence, created_at`

// CreateLine inserts one statement line.
func (r *ReconciliationRepository) CreateLine(ctx context.Context, tx usecase.Transaction, line *domain.ReconciliationLine) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO reconciliation_lines (
			id, reconciliation_id, line_date, description, amount, reference,
			status, ledger_entry_id, matched_at, match_confidence, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		line.ID,
		line.ReconciliationID,
		line.LineDate,
		line.Description,
		decimalToNumeric(line.Amount),
		line.Reference,
		string(line.Status),
		ptrToPgText(line.LedgerEntryID),
		ptrToPgTimestamptz(line.MatchedAt),
		stringToPgText(line.MatchConfidence),
		timeToPgTimestamptz(line.CreatedAt),
	)

	return err
}

// GetLineByID retrieves a statement line by ID.
func (r *ReconciliationRepository) GetLineByID(ctx context.Context, id string) (*domain.ReconciliationLine, error) {
	query := `SELECT` + lineColumns + ` FROM reconciliation_lines WHERE id = $1`

	return scanLine(r.pool.QueryRow(ctx, query, id))
}

// GetLineByIDForUpdate retrieves a line with a FOR UPDATE lock so concurrent
// RecordEntry calls on the same line serialize.
func (r *ReconciliationRepository) GetLineByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.ReconciliationLine, error) {
	pgxTx := tx.(*Tx).PgxTx()
	query := `SELECT` + lineColumns + ` FROM reconciliation_lines WHERE id = $1 FOR UPDATE`

	return scanLine(pgxTx.QueryRow(ctx, query, id))
}

// UpdateLineMatched persists a line's UNMATCHED -> MATCHED transition.
func (r *ReconciliationRepository) UpdateLineMatched(ctx context.Context, tx usecase.Transaction, line *domain.ReconciliationLine) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `
		UPDATE reconciliation_lines
		SET status = $2, ledger_entry_id = $3, matched_at = $4, match_confidence = $5
		WHERE id = $1`,
		line.ID,
		string(line.Status),
		ptrToPgText(line.LedgerEntryID),
		ptrToPgTimestamptz(line.MatchedAt),
		stringToPgText(line.MatchConfidence),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrLineNotFound
	}

	return nil
}

// ListLines lists a reconciliation's lines in statement order.
func (r *ReconciliationRepository) ListLines(ctx context.Context, reconciliationID string) ([]*domain.ReconciliationLine, error) {
	query := `SELECT` + lineColumns + `
		FROM reconciliation_lines
		WHERE reconciliation_id = $1
		ORDER BY line_date, created_at`

	rows, err := r.pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*domain.ReconciliationLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func scanReconciliation(row pgx.Row) (*domain.Reconciliation, error) {
	var (
		rec                domain.Reconciliation
		balance            pgtype.Numeric
		status             string
		startDate, endDate time.Time
		finalizedAt        pgtype.Timestamptz
		finalizedBy        pgtype.Text
		createdAt          pgtype.Timestamptz
	)

	err := row.Scan(
		&rec.ID,
		&rec.BankAccountID,
		&startDate,
		&endDate,
		&balance,
		&status,
		&finalizedAt,
		&finalizedBy,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReconciliationNotFound
		}

		return nil, err
	}

	rec.StartDate = startDate
	rec.EndDate = endDate
	rec.StatementBalance = numericToDecimal(balance)
	rec.Status = domain.ReconciliationStatus(status)
	rec.FinalizedAt = pgTimestamptzToPtr(finalizedAt)
	if finalizedBy.Valid {
		rec.FinalizedBy = finalizedBy.String
	}
	rec.CreatedAt = createdAt.Time

	return &rec, nil
}

func scanLine(row pgx.Row) (*domain.ReconciliationLine, error) {
	var (
		line            domain.ReconciliationLine
		amount          pgtype.Numeric
		status          string
		lineDate        time.Time
		ledgerEntryID   pgtype.Text
		matchedAt       pgtype.Timestamptz
		matchConfidence pgtype.Text
		createdAt       pgtype.Timestamptz
	)

	err := row.Scan(
		&line.ID,
		&line.ReconciliationID,
		&lineDate,
		&line.Description,
		&amount,
		&line.Reference,
		&status,
		&ledgerEntryID,
		&matchedAt,
		&matchConfidence,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLineNotFound
		}

		return nil, err
	}

	line.LineDate = lineDate
	line.Amount = numericToDecimal(amount)
	line.Status = domain.LineStatus(status)
	line.LedgerEntryID = pgTextToPtr(ledgerEntryID)
	line.MatchedAt = pgTimestamptzToPtr(matchedAt)
	if matchConfidence.Valid {
		line.MatchConfidence = matchConfidence.String
	}
	line.CreatedAt = createdAt.Time

	return &line, nil
}
