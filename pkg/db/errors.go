package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// IsUniqueViolation reports whether err is a unique constraint failure on
// either supported driver. When constraintName is provided, the helper also
// requires the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if !matches(err, pgUniqueViolation, sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey) {
		return false
	}
	return constraintName == "" || strings.Contains(err.Error(), constraintName)
}

// IsForeignKeyViolation reports whether err is a foreign key failure.
func IsForeignKeyViolation(err error) bool {
	return matches(err, pgForeignKeyViolation, sqlite3.ErrConstraintForeignKey)
}

// IsCheckViolation reports whether err is a CHECK constraint failure.
func IsCheckViolation(err error) bool {
	return matches(err, pgCheckViolation, sqlite3.ErrConstraintCheck)
}

func matches(err error, pgCode string, liteCodes ...sqlite3.ErrNoExtended) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCode
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		for _, code := range liteCodes {
			if liteErr.ExtendedCode == code {
				return true
			}
		}
	}
	return false
}
