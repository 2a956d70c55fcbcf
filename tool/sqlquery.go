package tool

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	// Registers the sqlite3 driver for file-backed databases.
	_ "github.com/mattn/go-sqlite3"
)

// PgxQuerier is the subset of pgxpool.Pool the SQL tool needs. Tests
// substitute a mock pool through it.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DBConfig is a parsed database URL.
type DBConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string
}

// ParseDBURL classifies a database URL. Postgres URLs pass through
// unchanged for the pgx pool; sqlite URLs reduce to a file path.
func ParseDBURL(dbURL string) (DBConfig, error) {
	if dbURL == "" {
		return DBConfig{}, fmt.Errorf("database URL is empty")
	}

	u, err := url.Parse(dbURL)
	if err != nil {
		return DBConfig{}, fmt.Errorf("invalid database URL: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		return DBConfig{Driver: "postgres", DSN: dbURL}, nil
	case "sqlite", "sqlite3", "file":
		path := u.Opaque
		if path == "" {
			path = u.Host + u.Path
		}
		if path == "" {
			return DBConfig{}, fmt.Errorf("sqlite URL %q has no path", dbURL)
		}
		return DBConfig{Driver: "sqlite", DSN: path}, nil
	case "":
		// A bare path is treated as a sqlite file.
		return DBConfig{Driver: "sqlite", DSN: dbURL}, nil
	default:
		return DBConfig{}, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}

// SQLQuery is a tool that runs read-only SQL queries against a Postgres
// or sqlite database and renders the result as a text table.
type SQLQuery struct {
	pool    PgxQuerier
	db      *sql.DB
	schema  string
	maxRows int
}

type SQLQueryOption func(*SQLQuery)

// WithMaxRows caps how many result rows are rendered.
func WithMaxRows(n int) SQLQueryOption {
	return func(s *SQLQuery) {
		if n > 0 {
			s.maxRows = n
		}
	}
}

// WithSchemaDescription appends a schema summary to the tool
// description so the model can write valid queries.
func WithSchemaDescription(schema string) SQLQueryOption {
	return func(s *SQLQuery) {
		s.schema = schema
	}
}

// NewSQLQuery creates a SQL tool from a database URL.
func NewSQLQuery(ctx context.Context, dbURL string, opts ...SQLQueryOption) (*SQLQuery, error) {
	cfg, err := ParseDBURL(dbURL)
	if err != nil {
		return nil, err
	}

	s := &SQLQuery{maxRows: 100}
	switch cfg.Driver {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		s.pool = pool
	case "sqlite":
		db, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		s.db = db
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewSQLQueryFromQuerier creates a SQL tool over an existing pgx pool
// or a compatible mock.
func NewSQLQueryFromQuerier(q PgxQuerier, opts ...SQLQueryOption) *SQLQuery {
	s := &SQLQuery{pool: q, maxRows: 100}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewSQLQueryFromDB creates a SQL tool over an existing database/sql handle.
func NewSQLQueryFromDB(db *sql.DB, opts ...SQLQueryOption) *SQLQuery {
	s := &SQLQuery{db: db, maxRows: 100}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the name of the tool.
func (s *SQLQuery) Name() string {
	return "query_database"
}

// Description returns the description of the tool.
func (s *SQLQuery) Description() string {
	desc := "Execute a read-only SQL query against the sales database and return the results as a table. " +
		"Only single SELECT statements are supported."
	if s.schema != "" {
		desc += "\n\nDatabase schema:\n" + s.schema
	}
	return desc
}

// Call executes the query.
func (s *SQLQuery) Call(ctx context.Context, input string) (string, error) {
	query := strings.TrimSpace(input)
	if err := validateReadOnly(query); err != nil {
		return "", err
	}

	var (
		columns []string
		records [][]any
		err     error
	)
	switch {
	case s.pool != nil:
		columns, records, err = s.queryPgx(ctx, query)
	case s.db != nil:
		columns, records, err = s.querySQL(ctx, query)
	default:
		return "", fmt.Errorf("sql tool has no database configured")
	}
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}

	if len(records) == 0 {
		return "The query returned no data.", nil
	}
	return formatTable(columns, records), nil
}

// validateReadOnly rejects everything except a single SELECT (or WITH)
// statement. The guard is a belt on top of database permissions, not a
// substitute for them.
func validateReadOnly(query string) error {
	trimmed := strings.TrimSuffix(strings.TrimSpace(query), ";")
	if strings.ContainsRune(trimmed, ';') {
		return fmt.Errorf("only a single statement is allowed")
	}
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("only SELECT queries are supported")
	}
	return nil
}

func (s *SQLQuery) queryPgx(ctx context.Context, query string) ([]string, [][]any, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = string(f.Name)
	}

	var records [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, err
		}
		records = append(records, values)
		if len(records) >= s.maxRows {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, records, nil
}

func (s *SQLQuery) querySQL(ctx context.Context, query string) ([]string, [][]any, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var records [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		records = append(records, values)
		if len(records) >= s.maxRows {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return columns, records, nil
}

// formatTable renders records as a pipe-separated text table with a
// record count, the shape the assistant's prompt expects.
func formatTable(columns []string, records [][]any) string {
	var sb strings.Builder
	header := strings.Join(columns, " | ")
	sb.WriteString(header)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("-", len(header)))
	sb.WriteByte('\n')

	for _, record := range records {
		cells := make([]string, len(record))
		for i, v := range record {
			cells[i] = formatCell(v)
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteByte('\n')
	}

	sb.WriteString(fmt.Sprintf("\nTotal %d records", len(records)))
	return sb.String()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "N/A"
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
