// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers to distinguish
// between failure scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user is created with an email that is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateTitle is returned when a movie is created with a title that is
// already in the catalog.
var ErrDuplicateTitle = errors.New("movie title already exists")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
