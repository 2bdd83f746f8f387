package implementation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"feature-catalog-be/internal/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantConflict  bool
		wantTransient bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true, false},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, false, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, false, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, false, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, false, true},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false, false},
		{"deadline", context.DeadlineExceeded, false, true},
		{"plain", errors.New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyError("op", tt.err)
			if tt.wantConflict {
				assert.ErrorIs(t, got, apperror.ErrConflict)
				return
			}
			var bs *apperror.BackingStoreError
			assert.ErrorAs(t, got, &bs)
			assert.Equal(t, tt.wantTransient, bs.Transient)
		})
	}

	assert.NoError(t, classifyError("op", nil))
}
