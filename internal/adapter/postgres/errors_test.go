package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/victorylog-backend/internal/domain"
)

func TestMapError_Nil(t *testing.T) {
	t.Parallel()

	got := mapError(nil, "entry", uuid.New())
	if got != nil {
		t.Errorf("mapError(nil) = %v, want nil", got)
	}
}

func TestMapError_NoRows(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	got := mapError(pgx.ErrNoRows, "entry", id)

	if got == nil {
		t.Fatal("mapError(ErrNoRows) = nil, want error")
	}
	if !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("mapError(ErrNoRows) does not wrap domain.ErrNotFound: %v", got)
	}
}

func TestMapError_WrappedNoRows(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	wrapped := fmt.Errorf("scan row: %w", pgx.ErrNoRows)
	got := mapError(wrapped, "aggregate", id)

	if !errors.Is(got, domain.ErrNotFound) {
		t.Errorf("mapError(wrapped ErrNoRows) does not wrap domain.ErrNotFound: %v", got)
	}
}

func TestMapError_ContextErrorsPassThrough(t *testing.T) {
	t.Parallel()

	for _, ctxErr := range []error{context.DeadlineExceeded, context.Canceled} {
		got := mapError(ctxErr, "entry", uuid.New())

		if !errors.Is(got, ctxErr) {
			t.Errorf("mapError(%v) does not wrap the context error: %v", ctxErr, got)
		}
		if errors.Is(got, domain.ErrNotFound) {
			t.Errorf("mapError(%v) should not map to a domain error", ctxErr)
		}
	}
}

func TestMapError_AllPgCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{"unique_violation", "23505", domain.ErrAlreadyExists},
		{"foreign_key_violation", "23503", domain.ErrNotFound},
		{"check_violation", "23514", domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pgErr := &pgconn.PgError{Code: tt.code}
			got := mapError(fmt.Errorf("insert row: %w", pgErr), "entry", uuid.New())

			if !errors.Is(got, tt.wantErr) {
				t.Errorf("mapError(code %s) does not wrap %v: %v", tt.code, tt.wantErr, got)
			}
		})
	}
}

func TestMapError_UnknownPgError(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	got := mapError(pgErr, "entry", uuid.New())

	var unwrapped *pgconn.PgError
	if !errors.As(got, &unwrapped) {
		t.Errorf("mapError(unknown PgError) does not wrap *pgconn.PgError: %v", got)
	}
	if errors.Is(got, domain.ErrNotFound) || errors.Is(got, domain.ErrAlreadyExists) || errors.Is(got, domain.ErrValidation) {
		t.Error("mapError(unknown PgError) should not map to a domain error")
	}
}

func TestMapError_UnknownError(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	original := errors.New("something unexpected")
	got := mapError(original, "entry", id)

	if !errors.Is(got, original) {
		t.Errorf("mapError(unknown) does not wrap original error: %v", got)
	}
	if want := fmt.Sprintf("entry %s: something unexpected", id); got.Error() != want {
		t.Errorf("mapError(unknown).Error() = %q, want %q", got.Error(), want)
	}
}
