package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Unique indexes are the authoritative guard against duplicate emails and
// slugs; the services insert first and classify the failure instead of
// running a racy check-then-insert.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// sqlite, used by the test databases
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
