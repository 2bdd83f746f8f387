// FILE: internal/repository/implementation/pg_errors.go
// Maps driver errors onto the application error taxonomy
package implementation

import (
	"context"
	"errors"
	"strings"

	"feature-catalog-be/internal/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// classifyError turns a gorm/pgx error into ErrConflict or a BackingStoreError
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			return apperror.ErrConflict
		}
		return &apperror.BackingStoreError{Op: op, Err: err, Transient: isTransientCode(pgErr.Code)}
	}
	transient := errors.Is(err, context.DeadlineExceeded) || pgconn.SafeToRetry(err) || pgconn.Timeout(err)
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		transient = true
	}
	return &apperror.BackingStoreError{Op: op, Err: err, Transient: transient}
}

// isTransientCode reports SQLSTATEs worth retrying: connection exceptions (08),
// transaction rollbacks such as serialization failures (40), insufficient resources (53)
// and admin shutdown.
func isTransientCode(code string) bool {
	switch {
	case strings.HasPrefix(code, "08"), strings.HasPrefix(code, "40"), strings.HasPrefix(code, "53"):
		return true
	case code == "57P01":
		return true
	}
	return false
}
