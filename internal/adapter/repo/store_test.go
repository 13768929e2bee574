package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil passes through", nil, nil},
		{"no rows", pgx.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), domain.ErrNotFound},
		{"deadline", context.DeadlineExceeded, domain.ErrStorageUnavailable},
		{
			"handle unique violation",
			&pgconn.PgError{Code: "23505", ConstraintName: constraintHandle},
			domain.ErrHandleTaken,
		},
		{
			"external id unique violation",
			&pgconn.PgError{Code: "23505", ConstraintName: constraintExternalID},
			domain.ErrDuplicateIdentity,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := translate("op", tc.err)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("translate() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tc.want) {
				t.Fatalf("translate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTranslateKeepsUnknownErrors(t *testing.T) {
	boom := errors.New("boom")
	got := translate("insert user", boom)
	if !errors.Is(got, boom) {
		t.Fatalf("translate() = %v, want wrapped original", got)
	}
	// Unique violations on unrelated constraints stay raw.
	other := &pgconn.PgError{Code: "23505", ConstraintName: "donations_pkey"}
	if err := translate("op", other); errors.Is(err, domain.ErrHandleTaken) || errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("translate() reclassified an unrelated constraint: %v", err)
	}
}
