package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// Every connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "history"),
		now:    time.Now,
	}, nil
}

// Migrate creates the tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// timeLayout is fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Record inserts rec and returns its ID.
func (s *SQLiteStore) Record(ctx context.Context, rec Record) (string, error) {
	if rec.ID == "" {
		rec.ID = "exec_" + uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	s.logger.Debug("sql", "op", "insert", "table", "executions", "id", rec.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO executions (id, language, source, output, error_category, error_message, execution_time_millis, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Language, rec.Source, rec.Output, rec.ErrorCategory, rec.ErrorMessage,
		rec.ExecutionTimeMillis, rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("insert execution: %w", err)
	}
	return rec.ID, nil
}

// Get returns the record with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Record, error) {
	s.logger.Debug("sql", "op", "select", "table", "executions", "id", id)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, language, source, output, error_category, error_message, execution_time_millis, created_at
		 FROM executions WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns records newest first.
func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	s.logger.Debug("sql", "op", "list", "table", "executions", "language", opts.Language, "limit", opts.Limit, "offset", opts.Offset)

	query := `SELECT id, language, source, output, error_category, error_message, execution_time_millis, created_at
		FROM executions`
	args := []any{}
	if opts.Language != "" {
		query += ` WHERE language = ?`
		args = append(args, opts.Language)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var rec Record
	var createdAt string
	if err := sc.Scan(&rec.ID, &rec.Language, &rec.Source, &rec.Output, &rec.ErrorCategory,
		&rec.ErrorMessage, &rec.ExecutionTimeMillis, &createdAt); err != nil {
		return Record{}, err
	}
	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Record{}, fmt.Errorf("execution %s: parse created_at: %w", rec.ID, err)
	}
	rec.CreatedAt = created
	return rec, nil
}

// Compile-time interface check
var _ Store = (*SQLiteStore)(nil)
