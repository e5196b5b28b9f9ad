package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

// VendorRepository implements usecase.VendorRepository.
type VendorRepository struct {
	pool *pgxpool.Pool
}

// NewVendorRepository creates a new VendorRepository.
func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

// Create inserts a vendor. Inline vendor creation during expense recording
// runs in the same transaction as the entries, so the row disappears with
// them on rollback.
func (r *VendorRepository) Create(ctx context.Context, tx usecase.Transaction, vendor *domain.Vendor) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO vendors (id, name, category, created_at)
		VALUES ($1, $2, $3, $4)`,
		vendor.ID,
		vendor.Name,
		vendor.Category,
		timeToPgTimestamptz(vendor.CreatedAt),
	)

	return err
}

// GetByID retrieves a vendor by ID.
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	var (
		vendor    domain.Vendor
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, category, created_at FROM vendors WHERE id = $1`,
		id,
	).Scan(&vendor.ID, &vendor.Name, &vendor.Category, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}

		return nil, err
	}

	vendor.CreatedAt = createdAt.Time

	return &vendor, nil
}
