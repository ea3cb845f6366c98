package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrorKind classifies storage failures the business layer reacts to.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindDuplicateEntry
	KindInvalidCredentials
)

func (k ErrorKind) String() string {
	switch k {
	case KindDuplicateEntry:
		return "duplicate entry"
	case KindInvalidCredentials:
		return "invalid credentials"
	default:
		return "unknown"
	}
}

// Postgres SQLSTATE codes.
const (
	pgUniqueViolation      = "23505"
	pgInvalidPassword      = "28P01"
	pgInvalidAuthorization = "28000"
)

// StoreError is a classified storage failure.
type StoreError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// KindOf reports the classification of err, KindUnknown when it carries none.
func KindOf(err error) ErrorKind {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind
	}
	return KindUnknown
}

// IsDuplicate reports whether err is a uniqueness violation.
func IsDuplicate(err error) bool {
	return KindOf(err) == KindDuplicateEntry
}

// translateError is the single point where driver errors become store errors.
// Unrecognised errors are returned with op context and remain unwrappable.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if kind := classify(err); kind != KindUnknown {
		return &StoreError{Kind: kind, Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func classify(err error) ErrorKind {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifySQLState(string(pqErr.Code))
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifySQLState(pgErr.Code)
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return classifySQLite(liteErr)
	}
	return KindUnknown
}

func classifySQLState(code string) ErrorKind {
	switch code {
	case pgUniqueViolation:
		return KindDuplicateEntry
	case pgInvalidPassword, pgInvalidAuthorization:
		return KindInvalidCredentials
	default:
		return KindUnknown
	}
}

func classifySQLite(err *sqlite.Error) ErrorKind {
	switch err.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return KindDuplicateEntry
	case sqlite3.SQLITE_AUTH:
		return KindInvalidCredentials
	case sqlite3.SQLITE_CONSTRAINT:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return KindDuplicateEntry
		}
	}
	return KindUnknown
}
