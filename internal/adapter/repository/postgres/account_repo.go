package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const insertAccountSQL = `
	INSERT INTO accounts (code, name, type, active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// Create inserts a chart-of-accounts row.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertAccountSQL,
		account.Code,
		account.Name,
		string(account.Type),
		account.Active,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrAccountAlreadyExists
		}

		return err
	}

	return nil
}

const selectAccountSQL = `
	SELECT code, name, type, active, created_at, updated_at
	FROM accounts
	WHERE code = $1`

// GetByCode retrieves an account by code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, selectAccountSQL, code))
}

// GetByCodeTx retrieves an account by code inside the caller's transaction.
func (r *AccountRepository) GetByCodeTx(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return scanAccount(pgxTx.QueryRow(ctx, selectAccountSQL, code))
}

// SetActive flips the active flag. The row itself is never deleted.
func (r *AccountRepository) SetActive(ctx context.Context, tx usecase.Transaction, code string, active bool, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE accounts SET active = $2, updated_at = $3 WHERE code = $1`,
		code, active, timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrUnknownAccount
	}

	return nil
}

// List lists the chart of accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Account, error) {
	query := `
		SELECT code, name, type, active, created_at, updated_at
		FROM accounts`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account              domain.Account
		accType              string
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&account.Code, &account.Name, &accType, &account.Active, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownAccount
		}

		return nil, err
	}

	account.Type = domain.AccountType(accType)
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt

	return &account, nil
}
