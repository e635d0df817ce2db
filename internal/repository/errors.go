// Package repository defines error types that are reused across multiple
// repositories and services.  Sentinel values and the two typed errors below
// form the failure taxonomy the HTTP layer maps to status codes: ErrNotFound
// for a missing entity, *ValidationError for a uniqueness conflict reported
// by the database, and *PersistenceError for every other store failure.
package repository

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no entity matches the given identifier.
var ErrNotFound = errors.New("not found")

// ValidationError reports a uniqueness violation or a field that breaks a
// row invariant.  Field names the column when it is known; Detail carries
// the driver's message or the broken rule.
type ValidationError struct {
	Field  string
	Detail string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Detail)
	}
	return "invalid value: " + e.Detail
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistenceError wraps any other database-layer failure, including faults
// raised in the middle of a transaction.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

const (
	mysqlDuplicateEntry = 1062
	pgUniqueViolation   = "23505"
)

var (
	pgKeyDetail   = regexp.MustCompile(`Key \(([^)]+)\)=`)
	mysqlKeyName  = regexp.MustCompile(`for key '([^']+)'`)
	sqliteColumns = regexp.MustCompile(`UNIQUE constraint failed: ([\w.]+)`)
)

// Translate classifies err as returned by gorm.  Nil stays nil, ErrNotFound
// and already classified errors pass through, gorm.ErrRecordNotFound becomes
// ErrNotFound, unique violations become *ValidationError and everything else
// is wrapped in a *PersistenceError tagged with op.
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var pe *PersistenceError
	switch {
	case errors.Is(err, ErrNotFound), errors.As(err, &ve), errors.As(err, &pe):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	}
	if v := asUniqueViolation(err); v != nil {
		return v
	}
	return &PersistenceError{Op: op, Err: err}
}

func asUniqueViolation(err error) *ValidationError {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		field := ""
		if m := mysqlKeyName.FindStringSubmatch(myErr.Message); m != nil {
			field = columnFromIndex(m[1])
		}
		return &ValidationError{Field: field, Detail: myErr.Message, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		field := ""
		if m := pgKeyDetail.FindStringSubmatch(pgErr.Detail); m != nil {
			field = m[1]
		} else {
			field = columnFromIndex(pgErr.ConstraintName)
		}
		return &ValidationError{Field: field, Detail: pgErr.Detail, Err: err}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ValidationError{Detail: err.Error(), Err: err}
	}

	// SQLite reports "UNIQUE constraint failed: products.slug".
	if m := sqliteColumns.FindStringSubmatch(err.Error()); m != nil {
		field := m[1]
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		return &ValidationError{Field: field, Detail: err.Error(), Err: err}
	}
	return nil
}

// columnFromIndex recovers the column from gorm's index naming
// ("idx_products_slug" or "products.idx_products_slug").
func columnFromIndex(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimPrefix(name, "idx_")
	for _, table := range []string{"products_", "users_", "product_images_"} {
		if strings.HasPrefix(name, table) {
			return strings.TrimPrefix(name, table)
		}
	}
	return name
}
