package tool

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/tools"
)

var _ tools.Tool = (*SQLQuery)(nil)

func TestParseDBURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		driver string
		dsn    string
		errMsg string
	}{
		{
			name:   "postgres url passes through",
			url:    "postgres://user:pw@localhost:5432/sales",
			driver: "postgres",
			dsn:    "postgres://user:pw@localhost:5432/sales",
		},
		{
			name:   "postgresql scheme",
			url:    "postgresql://localhost/sales",
			driver: "postgres",
			dsn:    "postgresql://localhost/sales",
		},
		{
			name:   "sqlite absolute path",
			url:    "sqlite:///data/sales.db",
			driver: "sqlite",
			dsn:    "/data/sales.db",
		},
		{
			name:   "sqlite relative path",
			url:    "sqlite://sales.db",
			driver: "sqlite",
			dsn:    "sales.db",
		},
		{
			name:   "bare path is sqlite",
			url:    "data/sales.db",
			driver: "sqlite",
			dsn:    "data/sales.db",
		},
		{
			name:   "unsupported scheme",
			url:    "mysql://localhost/sales",
			errMsg: "unsupported database scheme",
		},
		{
			name:   "empty url",
			url:    "",
			errMsg: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseDBURL(tt.url)
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.driver, cfg.Driver)
			assert.Equal(t, tt.dsn, cfg.DSN)
		})
	}
}

func TestSQLQueryRejectsWrites(t *testing.T) {
	s := NewSQLQueryFromQuerier(nil)

	for _, query := range []string{
		"DROP TABLE sales",
		"INSERT INTO sales VALUES (1)",
		"UPDATE sales SET total = 0",
		"DELETE FROM sales",
	} {
		_, err := s.Call(context.Background(), query)
		assert.ErrorContains(t, err, "only SELECT queries are supported", query)
	}

	_, err := s.Call(context.Background(), "SELECT 1; DROP TABLE sales")
	assert.ErrorContains(t, err, "single statement")
}

func TestSQLQueryPostgres(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT city, total FROM sales").
		WillReturnRows(pgxmock.NewRows([]string{"city", "total"}).
			AddRow("台北", int64(120)).
			AddRow("高雄", int64(85)))

	s := NewSQLQueryFromQuerier(mock)
	out, err := s.Call(context.Background(), "SELECT city, total FROM sales")
	require.NoError(t, err)

	assert.Contains(t, out, "city | total")
	assert.Contains(t, out, "台北 | 120")
	assert.Contains(t, out, "高雄 | 85")
	assert.Contains(t, out, "Total 2 records")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLQueryPostgresEmptyResult(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT city FROM sales").
		WillReturnRows(pgxmock.NewRows([]string{"city"}))

	s := NewSQLQueryFromQuerier(mock)
	out, err := s.Call(context.Background(), "SELECT city FROM sales WHERE total > 9000")
	require.NoError(t, err)
	assert.Equal(t, "The query returned no data.", out)
}

func TestSQLQuerySqlite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE sales (city TEXT, total INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sales VALUES ('台北', 120), ('台中', NULL)`)
	require.NoError(t, err)

	s := NewSQLQueryFromDB(db)
	out, err := s.Call(context.Background(), "SELECT city, total FROM sales ORDER BY city")
	require.NoError(t, err)

	assert.Contains(t, out, "台北 | 120")
	assert.Contains(t, out, "台中 | N/A", "NULL renders as N/A")
	assert.Contains(t, out, "Total 2 records")
}

func TestSQLQueryMaxRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"n"})
	for i := 0; i < 5; i++ {
		rows.AddRow(int64(i))
	}
	mock.ExpectQuery("SELECT n FROM numbers").WillReturnRows(rows)

	s := NewSQLQueryFromQuerier(mock, WithMaxRows(3))
	out, err := s.Call(context.Background(), "SELECT n FROM numbers")
	require.NoError(t, err)
	assert.Contains(t, out, "Total 3 records")
}

func TestSQLQueryDescriptionIncludesSchema(t *testing.T) {
	s := NewSQLQueryFromQuerier(nil, WithSchemaDescription("sales(city TEXT, total INTEGER)"))
	assert.Contains(t, s.Description(), "sales(city TEXT, total INTEGER)")
}
