package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether the error is a unique constraint failure.
// When a constraint name is given, the violation must reference it.
func IsUniqueViolation(err error, constraintName ...string) bool {
	if err == nil {
		return false
	}

	var wanted string
	if len(constraintName) > 0 {
		wanted = constraintName[0]
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		if pgxErr.Code != pgUniqueViolation {
			return false
		}
		return wanted == "" || pgxErr.ConstraintName == wanted
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != pgUniqueViolation {
			return false
		}
		return wanted == "" || pqErr.Constraint == wanted
	}

	// The sqlite test driver reports violations by message only.
	msg := err.Error()
	if wanted != "" {
		return strings.Contains(msg, wanted)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
