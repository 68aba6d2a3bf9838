package db

import (
	"database/sql"
	"strings"

	"github.com/teranos/parigen/errors"
)

// ErrDatabaseClosed marks store errors caused by a descriptor database that
// was closed while it was still in use.
var ErrDatabaseClosed = errors.New("descriptor database is closed")

// IsDatabaseClosed reports whether err comes from a closed *sql.DB or a
// connection that has already been returned.
func IsDatabaseClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.IsAny(err, ErrDatabaseClosed, sql.ErrConnDone) {
		return true
	}
	// database/sql does not export its closed-DB error
	return strings.Contains(err.Error(), "sql: database is closed")
}

// StoreError marks err as a descriptor store failure. Errors from a closed
// database also carry ErrDatabaseClosed and a hint.
func StoreError(err error, context string) error {
	if err == nil {
		return nil
	}
	if IsDatabaseClosed(err) {
		err = errors.WithHint(errors.Mark(err, ErrDatabaseClosed),
			"the descriptor database was closed before the query ran")
	}
	return errors.WrapStoreFailure(err, context)
}
