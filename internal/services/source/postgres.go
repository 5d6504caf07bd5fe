package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/lib/pq"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/ordo/internal/common"
	"github.com/ternarybob/ordo/internal/models"
)

// identifierPattern restricts the configured table name to a plain SQL
// identifier since it is interpolated into the fixed query.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostgresSource reads the full order table from a PostgreSQL database.
// Every fetch runs one fixed unparameterized SELECT and maps each row to a
// column-name-to-value mapping.
type PostgresSource struct {
	db           *sql.DB
	table        string
	fetchTimeout time.Duration
	logger       arbor.ILogger
}

// NewPostgresSource opens a connection pool against the configured
// database. Connectivity is verified with an advisory ping; a failed ping
// is logged but not fatal since the refresh loop tolerates failed cycles.
func NewPostgresSource(cfg common.DatabaseConfig, logger arbor.ILogger) (*PostgresSource, error) {
	if !identifierPattern.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Table)
	}

	fetchTimeout := 30 * time.Second
	if cfg.FetchTimeout != "" {
		parsed, err := time.ParseDuration(cfg.FetchTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid fetch timeout duration '%s': %w", cfg.FetchTimeout, err)
		}
		fetchTimeout = parsed
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	source := &PostgresSource{
		db:           db,
		table:        cfg.Table,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := source.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).
			Str("host", cfg.Host).
			Str("database", cfg.Database).
			Msg("Database not reachable at startup, refresh cycles will retry")
	}

	return source, nil
}

// NewPostgresSourceWithDB wraps an existing connection. Used by tests.
func NewPostgresSourceWithDB(db *sql.DB, table string, fetchTimeout time.Duration, logger arbor.ILogger) *PostgresSource {
	return &PostgresSource{
		db:           db,
		table:        table,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// FetchAll executes the fixed table query and returns every row keyed by
// column name, with timestamp values normalized to the fixed string format.
func (s *PostgresSource) FetchAll(ctx context.Context) ([]models.OrderRecord, error) {
	queryCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT * FROM %s", s.table)
	rows, err := s.db.QueryContext(queryCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	orders := make([]models.OrderRecord, 0)
	values := make([]interface{}, len(columns))
	scanArgs := make([]interface{}, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		record := make(models.OrderRecord, len(columns))
		for i, col := range columns {
			record[col] = normalizeValue(values[i])
		}
		orders = append(orders, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	s.logger.Debug().
		Str("table", s.table).
		Int("rows", len(orders)).
		Msg("Fetched order rows")

	return orders, nil
}

// normalizeValue converts driver values into JSON-friendly types:
// timestamps become fixed-format strings and raw bytes become strings.
func normalizeValue(v interface{}) interface{} {
	switch value := v.(type) {
	case time.Time:
		return models.FormatTimestamp(value)
	case []byte:
		return string(value)
	default:
		return value
	}
}

// Ping verifies database connectivity
func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool
func (s *PostgresSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
