package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propledger/propledger/internal/domain"
	"github.com/propledger/propledger/internal/usecase"
)

const auditColumns = `id, actor, action, resource_type, resource_id, request_id,
	before_state, after_state, status, error_message, created_at`

const insertAuditSQL = `
	INSERT INTO audit_logs (` + auditColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts an audit log entry outside of any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	args, err := auditInsertArgs(log)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, insertAuditSQL, args...)
	return err
}

// CreateTx inserts an audit log entry within a transaction, so the
// audit record commits or rolls back together with the change it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	args, err := auditInsertArgs(log)
	if err != nil {
		return err
	}
	_, err = tx.(*Tx).PgxTx().Exec(ctx, insertAuditSQL, args...)
	return err
}

// List retrieves audit logs matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Actor != "" {
		conds = append(conds, "actor = "+arg(filter.Actor))
	}
	if filter.Action != "" {
		conds = append(conds, "action = "+arg(filter.Action))
	}
	if filter.ResourceType != "" {
		conds = append(conds, "resource_type = "+arg(filter.ResourceType))
	}
	if filter.ResourceID != "" {
		conds = append(conds, "resource_id = "+arg(filter.ResourceID))
	}
	if filter.StartDate != nil {
		conds = append(conds, "created_at >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conds = append(conds, "created_at <= "+arg(*filter.EndDate))
	}

	query := `SELECT ` + auditColumns + ` FROM audit_logs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		log, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func auditInsertArgs(log *domain.AuditLog) ([]any, error) {
	var beforeJSON, afterJSON []byte
	var err error

	if log.BeforeState != nil {
		beforeJSON, err = json.Marshal(log.BeforeState)
		if err != nil {
			return nil, err
		}
	}
	if log.AfterState != nil {
		afterJSON, err = json.Marshal(log.AfterState)
		if err != nil {
			return nil, err
		}
	}

	return []any{
		log.ID,
		log.Actor,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		beforeJSON,
		afterJSON,
		log.Status,
		log.ErrorMessage,
		log.CreatedAt,
	}, nil
}

func scanAuditLog(row pgx.Row) (*domain.AuditLog, error) {
	var (
		log        domain.AuditLog
		beforeJSON []byte
		afterJSON  []byte
	)

	err := row.Scan(
		&log.ID,
		&log.Actor,
		&log.Action,
		&log.ResourceType,
		&log.ResourceID,
		&log.RequestID,
		&beforeJSON,
		&afterJSON,
		&log.Status,
		&log.ErrorMessage,
		&log.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(beforeJSON) > 0 {
		if err := json.Unmarshal(beforeJSON, &log.BeforeState); err != nil {
			return nil, err
		}
	}
	if len(afterJSON) > 0 {
		if err := json.Unmarshal(afterJSON, &log.AfterState); err != nil {
			return nil, err
		}
	}

	return &log, nil
}
