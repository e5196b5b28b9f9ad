package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "deadlock",
			err:  &pgconn.PgError{Code: pgErrDeadlock},
			want: true,
		},
		{
			name: "serialization failure",
			err:  &pgconn.PgError{Code: pgErrSerializationFailure},
			want: true,
		},
		{
			name: "idempotency key race",
			err:  &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: entriesIdempotencyKeyIdx},
			want: true,
		},
		{
			name: "other unique violation",
			err:  &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "accounts_pkey"},
			want: false,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: "23503"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "wrapped pg error",
			err:  errors.Join(errors.New("posting"), &pgconn.PgError{Code: pgErrDeadlock}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Fatalf("isRetryableError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetryRecoversFromIdempotencyKeyRace(t *testing.T) {
	r := NewRetrier()

	calls := 0
	err := r.Retry(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: entriesIdempotencyKeyIdx}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected recovery on retry, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestRetryDoesNotRetryPermanentErrors(t *testing.T) {
	r := NewRetrier()

	calls := 0
	err := r.Retry(context.Background(), func() error {
		calls++
		return &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "accounts_pkey"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", calls)
	}
}
