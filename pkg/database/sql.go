package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-gorp/gorp/v3"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/openswoop/hooscheds/pkg/catalog"
	"github.com/openswoop/hooscheds/pkg/config"
	apperrors "github.com/openswoop/hooscheds/pkg/errors"
	"github.com/openswoop/hooscheds/pkg/persist"
)

// SQL is a Sink backed by a relational database through gorp.
type SQL struct {
	db    *sql.DB
	dbmap *gorp.DbMap
}

// NewSQL opens and pings the configured database.
func NewSQL(cfg config.DatabaseConfig) (*SQL, error) {
	dialect, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, apperrors.SQL(err, driverCode(err), "unable to open database")
	}
	if cfg.Driver == "sqlite3" {
		// One writer at a time; concurrent statements queue on the pool
		db.SetMaxOpenConns(1)
	} else {
		db.SetConnMaxLifetime(1 * time.Hour)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, apperrors.SQL(err, driverCode(err), "unable to connect to database")
	}

	s, err := newSQL(db, dialect, cfg.CreateTables)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func newSQL(db *sql.DB, dialect gorp.Dialect, createTables bool) (*SQL, error) {
	// Initialize the database mapping, creating the tables if asked to
	dbmap := &gorp.DbMap{Db: db, Dialect: dialect}
	dbmap.AddTableWithName(catalog.Department{}, catalog.TableDepartment).SetKeys(false, "DeptID")
	course := dbmap.AddTableWithName(catalog.Course{}, catalog.TableCourse).SetKeys(false, "CourseID")
	course.ColMap("CourseDescription").SetMaxSize(2048)
	dbmap.AddTableWithName(catalog.CourseDepartment{}, catalog.TableCourseDepartment).SetKeys(false, "CourseID", "DeptID")
	dbmap.AddTableWithName(catalog.Section{}, catalog.TableSection).SetKeys(false, "SectionID", "CourseID")

	if createTables {
		if err := dbmap.CreateTablesIfNotExists(); err != nil {
			return nil, apperrors.SQL(err, driverCode(err), "unable to create tables")
		}
	}
	return &SQL{db: db, dbmap: dbmap}, nil
}

func dialectFor(driver string) (gorp.Dialect, error) {
	switch driver {
	case "sqlite3":
		return gorp.SqliteDialect{}, nil
	case "postgres":
		return gorp.PostgresDialect{}, nil
	case "mysql":
		return gorp.MySQLDialect{Engine: "InnoDB", Encoding: "utf8mb4"}, nil
	default:
		return nil, apperrors.New(apperrors.CodeConfig, fmt.Sprintf("unsupported SQL driver %q", driver))
	}
}

func (s *SQL) Clear(ctx context.Context, table string) (int64, error) {
	query := "delete from " + s.dbmap.Dialect.QuotedTableForQuery("", table)
	res, err := s.dbmap.WithContext(ctx).Exec(query)
	if err != nil {
		return 0, apperrors.SQL(err, driverCode(err), "delete from "+table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Insert stores one row. A row that is already present is not an error.
func (s *SQL) Insert(ctx context.Context, row catalog.Row) error {
	tx := persist.InsertIgnoringDupes(s.dbmap.WithContext(ctx))
	if err := tx.Insert(row); err != nil {
		return apperrors.SQL(err, driverCode(err), "insert into "+row.Table())
	}
	return nil
}

// Count returns the number of rows in a table.
func (s *SQL) Count(table string) (int64, error) {
	return s.dbmap.SelectInt("select count(*) from " + s.dbmap.Dialect.QuotedTableForQuery("", table))
}

func (s *SQL) Close() error {
	return s.db.Close()
}

// driverCode extracts the error number or SQLSTATE the driver reported.
func driverCode(err error) string {
	var sqliteError sqlite3.Error
	if errors.As(err, &sqliteError) {
		return strconv.Itoa(int(sqliteError.ExtendedCode))
	}
	var pqError *pq.Error
	if errors.As(err, &pqError) {
		return string(pqError.Code)
	}
	var mysqlError *mysql.MySQLError
	if errors.As(err, &mysqlError) {
		return strconv.Itoa(int(mysqlError.Number))
	}
	return ""
}
