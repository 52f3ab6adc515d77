package db

import (
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/musetronstar/tagd/errors"
)

// ErrDatabaseClosed is returned when operations are attempted on a closed database.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed checks if an error indicates the database connection is closed.
// This handles both:
// - Wrapped ErrDatabaseClosed errors from this package
// - Raw sql driver errors that contain "database is closed" in their message
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDatabaseClosed) {
		return true
	}
	return strings.Contains(err.Error(), "database is closed")
}

func sqliteError(err error) (sqlite3.Error, bool) {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se, true
	}
	return se, false
}

// IsUniqueViolation reports a PRIMARY KEY or UNIQUE constraint failure.
func IsUniqueViolation(err error) bool {
	se, ok := sqliteError(err)
	if !ok {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// IsForeignKeyViolation reports a FOREIGN KEY constraint failure.
func IsForeignKeyViolation(err error) bool {
	se, ok := sqliteError(err)
	return ok && se.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

// IsConstraintViolation reports any constraint failure, including those
// raised by triggers.
func IsConstraintViolation(err error) bool {
	se, ok := sqliteError(err)
	return ok && se.Code == sqlite3.ErrConstraint
}

// IsBusy reports a locked or busy database.
func IsBusy(err error) bool {
	se, ok := sqliteError(err)
	return ok && (se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked)
}
