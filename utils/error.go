package utils

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var ErrorRecordNotFound = errors.New("record not found")

// Payment schedule calculator errors.
var (
	ErrorInvalidSplitCount = errors.New("invalid split count")
	ErrorInvalidAmount     = errors.New("invalid amount")
)

// IsDuplicateEntry reports whether err is a MySQL unique-key violation (1062).
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
