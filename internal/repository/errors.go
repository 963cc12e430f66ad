// Package repository holds the MySQL data access for reservations, the
// store configuration and staff accounts.  Higher layers distinguish
// failures through the sentinel values below.
package repository

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert collides with a unique key, such
// as a second holiday on the same date.  Handlers translate it into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when a staff account already uses the e-mail.
var ErrEmailExists = errors.New("email already exists")

const (
	mysqlDuplicateEntry = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock       = 1213
)

// IsRetryable reports whether err is a transient write collision: a
// deadlock, a lock wait timeout or a duplicate key on the reservation
// slot index raised by a concurrent writer.  Retrying the whole unit of
// work re-reads the ledger and resolves it.
func IsRetryable(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	switch me.Number {
	case mysqlDuplicateEntry, mysqlLockWaitTimeout, mysqlDeadlock:
		return true
	}
	return false
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
