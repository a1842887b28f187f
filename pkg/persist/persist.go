package persist

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

type Transaction interface {
	Insert(list ...interface{}) error
}

type InsertFunc func(...interface{}) error

func (f InsertFunc) Insert(list ...interface{}) error {
	return f(list...)
}

// InsertIgnoringDupes drops unique constraint violations, so a row that
// arrives twice (a course listed under two departments) is stored once.
func InsertIgnoringDupes(t Transaction) Transaction {
	return InsertFunc(func(list ...interface{}) error {
		err := t.Insert(list...)
		if IsDuplicate(err) {
			return nil // silently ignore
		}
		return err
	})
}

// IsDuplicate reports whether err is a unique or primary key violation from
// one of the supported drivers.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var sqliteError sqlite3.Error
	if errors.As(err, &sqliteError) {
		return sqliteError.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteError.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pqError *pq.Error
	if errors.As(err, &pqError) {
		return pqError.Code == "23505"
	}
	var mysqlError *mysql.MySQLError
	if errors.As(err, &mysqlError) {
		return mysqlError.Number == 1062
	}
	return false
}
