package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL/MariaDB error numbers the repositories care about.
const (
	mysqlDuplicateEntry     = 1062
	mysqlForeignKeyViolated = 1452
)

// isDuplicateKeyError reports whether the error is a unique-constraint
// violation. Duplicate keys carry domain meaning here (a voter racing
// their own second cast, a re-registered email) and are translated to
// sentinel errors instead of surfacing as generic 500s.
func isDuplicateKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// isForeignKeyError reports whether the error is a foreign key
// constraint failure.
func isForeignKeyError(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlForeignKeyViolated
}
