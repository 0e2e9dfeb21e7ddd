package engine

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlbench/pkg/core"
)

func newMockInstance(t *testing.T) (*BaseSQLInstance, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &BaseSQLInstance{DB: db, Dialect: "mock"}, mock
}

func TestBaseSQLInstance_ExecWithoutConnection(t *testing.T) {
	base := &BaseSQLInstance{}
	_, err := base.Exec(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database connection not established")
}

func TestBaseSQLInstance_Exec(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		setupMock func(mock sqlmock.Sqlmock)
		wantSets  []core.ResultSet
		wantErr   string
	}{
		{
			name: "statement without columns yields no set",
			sql:  "CREATE TABLE users (id INT)",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("CREATE TABLE users (id INT)")).
					WillReturnRows(sqlmock.NewRows([]string{}))
			},
			wantSets: nil,
		},
		{
			name: "query rows are normalized",
			sql:  "SELECT id, name FROM users",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM users")).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
						AddRow(int32(1), "alice").
						AddRow(int64(2), nil))
			},
			wantSets: []core.ResultSet{{
				Columns: []string{"id", "name"},
				Rows:    []core.Row{{int64(1), "alice"}, {int64(2), nil}},
			}},
		},
		{
			name: "empty select keeps its columns",
			sql:  "SELECT id FROM users WHERE 0",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE 0")).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			wantSets: []core.ResultSet{{Columns: []string{"id"}, Rows: []core.Row{}}},
		},
		{
			name: "every statement with columns yields a set",
			sql:  "SELECT 1 AS a; SELECT 2 AS b",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 AS a")).
					WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(int64(1)))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT 2 AS b")).
					WillReturnRows(sqlmock.NewRows([]string{"b"}).AddRow(int64(2)))
			},
			wantSets: []core.ResultSet{
				{Columns: []string{"a"}, Rows: []core.Row{{int64(1)}}},
				{Columns: []string{"b"}, Rows: []core.Row{{int64(2)}}},
			},
		},
		{
			name: "failure stops execution and keeps earlier sets",
			sql:  "SELECT 1 AS a; SELECT * FROM missing; SELECT 3",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 AS a")).
					WillReturnRows(sqlmock.NewRows([]string{"a"}).AddRow(int64(1)))
				mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM missing")).
					WillReturnError(assert.AnError)
			},
			wantSets: []core.ResultSet{{Columns: []string{"a"}, Rows: []core.Row{{int64(1)}}}},
			wantErr:  assert.AnError.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, mock := newMockInstance(t)
			tt.setupMock(mock)

			sets, err := base.Exec(context.Background(), tt.sql)
			if tt.wantErr != "" {
				require.Error(t, err)
				var qerr *core.QueryError
				require.ErrorAs(t, err, &qerr)
				assert.Equal(t, tt.wantErr, qerr.Error())
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantSets, sets)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBaseSQLInstance_ReturnsRows(t *testing.T) {
	base, mock := newMockInstance(t)
	base.ReturnsRows = func(stmt string) bool { return stmt == "SELECT 1" }

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO t VALUES (1)")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1")).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(int64(1)))

	sets, err := base.Exec(context.Background(), "INSERT INTO t VALUES (1); SELECT 1")
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, []string{"1"}, sets[0].Columns)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLInstance_Requery(t *testing.T) {
	base, mock := newMockInstance(t)
	base.Requery = func(stmt string, types []*sql.ColumnType) (string, bool) {
		if types[0].DatabaseTypeName() != "DATE" {
			return "", false
		}
		return "SELECT raw", true
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT d FROM e")).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("d").OfType("DATE", "")).AddRow("parsed"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT raw")).
		WillReturnRows(sqlmock.NewRows([]string{"c1"}).AddRow("2024-01-02"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT n FROM e")).
		WillReturnRows(sqlmock.NewRowsWithColumnDefinition(
			sqlmock.NewColumn("n").OfType("INTEGER", int64(0))).AddRow(int64(3)))

	sets, err := base.Exec(context.Background(), "SELECT d FROM e; SELECT n FROM e")
	require.NoError(t, err)
	assert.Equal(t, []core.ResultSet{
		{Columns: []string{"d"}, Rows: []core.Row{{"2024-01-02"}}},
		{Columns: []string{"n"}, Rows: []core.Row{{int64(3)}}},
	}, sets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLInstance_Close(t *testing.T) {
	tests := []struct {
		name    string
		setupDB bool
	}{
		{name: "close with nil DB", setupDB: false},
		{name: "close with open DB", setupDB: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLInstance{}
			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}
			assert.NoError(t, base.Close())
			assert.Equal(t, tt.setupDB, base.IsConnected())
		})
	}
}
