package database

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-gorp/gorp/v3"
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openswoop/hooscheds/pkg/catalog"
	"github.com/openswoop/hooscheds/pkg/config"
	apperrors "github.com/openswoop/hooscheds/pkg/errors"
)

func newSQLMock(t *testing.T, dialect gorp.Dialect) (*SQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	s, err := newSQL(db, dialect, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return s, mock
}

func TestSQLClear(t *testing.T) {
	s, mock := newSQLMock(t, gorp.SqliteDialect{})

	mock.ExpectExec(regexp.QuoteMeta(`delete from "course_department"`)).
		WillReturnResult(sqlmock.NewResult(0, 42))

	n, err := s.Clear(context.Background(), catalog.TableCourseDepartment)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLClearMySQLQuoting(t *testing.T) {
	s, mock := newSQLMock(t, gorp.MySQLDialect{Engine: "InnoDB", Encoding: "utf8mb4"})

	mock.ExpectExec(regexp.QuoteMeta("delete from `Section`")).
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'hooscheds.Section' doesn't exist"})

	_, err := s.Clear(context.Background(), catalog.TableSection)
	require.Error(t, err)

	appErr := apperrors.FromError(err)
	assert.Equal(t, apperrors.CodeSQL, appErr.Code)
	assert.Equal(t, "1146", appErr.DriverCode)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLInsertIsParameterized(t *testing.T) {
	s, mock := newSQLMock(t, gorp.SqliteDialect{})

	mock.ExpectExec(regexp.QuoteMeta(`insert into "Section"`)).
		WithArgs("001", "CS 2150", "O'Brien", "Rice Hall 130", "1:00 PM", "1:50 PM", "MoWeFr", "12/180").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Insert(context.Background(), &catalog.Section{
		SectionID:    "001",
		CourseID:     "CS 2150",
		Professor:    "O'Brien",
		Location:     "Rice Hall 130",
		StartTime:    "1:00 PM",
		EndTime:      "1:50 PM",
		MeetingDates: "MoWeFr",
		Availability: "12/180",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLInsertIgnoresDuplicates(t *testing.T) {
	s, mock := newSQLMock(t, gorp.SqliteDialect{})

	mock.ExpectExec(regexp.QuoteMeta(`insert into "Course"`)).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey})

	err := s.Insert(context.Background(), &catalog.Course{CourseID: "STS 4500", CourseName: "STS and Engineering Practice", Term: "Fall 2022"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLInsertReportsDriverCode(t *testing.T) {
	s, mock := newSQLMock(t, gorp.SqliteDialect{})

	mock.ExpectExec(regexp.QuoteMeta(`insert into "course_department"`)).
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey})

	err := s.Insert(context.Background(), &catalog.CourseDepartment{CourseID: "CS 2150", DeptID: "CS"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSQL))
	assert.Equal(t, "787", apperrors.FromError(err).DriverCode)
}

func TestDialectForRejectsUnknownDriver(t *testing.T) {
	_, err := dialectFor("oracle")
	assert.True(t, errors.Is(err, apperrors.ErrConfig))
}

func TestSQLiteRoundTrip(t *testing.T) {
	s, err := NewSQL(config.DatabaseConfig{
		Driver:       "sqlite3",
		Path:         filepath.Join(t.TempDir(), "hooscheds.db"),
		CreateTables: true,
	})
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	dept := &catalog.Department{DeptID: "CS", SchoolName: "School of Engineering & Applied Science"}
	require.NoError(t, s.Insert(ctx, dept))
	require.NoError(t, s.Insert(ctx, dept))

	count, err := s.Count(catalog.TableDepartment)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	n, err := s.Clear(ctx, catalog.TableDepartment)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
