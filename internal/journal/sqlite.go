package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"utimes-go/internal/journal/migrations"
	"utimes-go/internal/stamp"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteJournal implements Journal on SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

// NewSQLiteJournal opens the journal at path, or an in-memory one for
// ":memory:", and migrates it to the latest schema.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	return &SQLiteJournal{db: db, path: path}, nil
}

// NewSQLiteJournalFromDB wraps an existing, already migrated connection.
func NewSQLiteJournalFromDB(db *sql.DB) *SQLiteJournal {
	return &SQLiteJournal{db: db}
}

// OpenConnection opens a SQLite connection with foreign keys enforced.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if path == ":memory:" {
		// Every connection to ":memory:" is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return db, nil
}

func (s *SQLiteJournal) CreateOperation(op *Operation) error {
	cols := specColumns(op.Spec)
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO operations (id, command, link_mode, atime_ms, mtime_ms, btime_ms, undo_of, started_at, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		op.ID, op.Command, op.Mode.String(), cols[0], cols[1], cols[2],
		nullString(op.UndoOf), op.StartedAt.UnixMilli(), string(StatusRunning))
	if err != nil {
		return fmt.Errorf("creating operation: %w", err)
	}
	op.Status = StatusRunning
	return nil
}

func (s *SQLiteJournal) RecordEntry(e *Entry) error {
	cols := specColumns(e.Prior)
	kind := ""
	if e.ErrorKind != 0 {
		kind = e.ErrorKind.String()
	}
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO entries (operation_id, seq, path, applied, error_kind, message, prior_atime_ms, prior_mtime_ms, prior_btime_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.OperationID, e.Seq, e.Path, e.Applied, kind, e.Message, cols[0], cols[1], cols[2])
	if err != nil {
		return fmt.Errorf("recording entry %d of operation %s: %w", e.Seq, e.OperationID, err)
	}
	return nil
}

func (s *SQLiteJournal) FinishOperation(id string, status Status, finishedAt time.Time) error {
	res, err := s.db.ExecContext(context.Background(),
		`UPDATE operations SET status = ?, finished_at = ? WHERE id = ?`,
		string(status), finishedAt.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finishing operation: no operation %s", id)
	}
	return nil
}

const operationColumns = `id, command, link_mode, atime_ms, mtime_ms, btime_ms, undo_of, started_at, finished_at, status`

func (s *SQLiteJournal) ListOperations(limit int) ([]*Operation, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT `+operationColumns+` FROM operations ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("listing operations: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

func (s *SQLiteJournal) FindOperation(id string) (*Operation, error) {
	row := s.db.QueryRowContext(context.Background(),
		`SELECT `+operationColumns+` FROM operations WHERE id = ?`, id)
	op, err := scanOperation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding operation %s: %w", id, err)
	}
	return op, nil
}

func (s *SQLiteJournal) FindUndo(id string) (*Operation, error) {
	row := s.db.QueryRowContext(context.Background(),
		`SELECT `+operationColumns+` FROM operations WHERE undo_of = ? ORDER BY started_at LIMIT 1`, id)
	op, err := scanOperation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding undo of %s: %w", id, err)
	}
	return op, nil
}

func (s *SQLiteJournal) FindEntries(operationID string) ([]*Entry, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT operation_id, seq, path, applied, error_kind, message, prior_atime_ms, prior_mtime_ms, prior_btime_ms
		 FROM entries WHERE operation_id = ? ORDER BY seq`, operationID)
	if err != nil {
		return nil, fmt.Errorf("finding entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			e    Entry
			kind string
			cols [3]sql.NullInt64
		)
		if err := rows.Scan(&e.OperationID, &e.Seq, &e.Path, &e.Applied, &kind, &e.Message, &cols[0], &cols[1], &cols[2]); err != nil {
			return nil, fmt.Errorf("finding entries: %w", err)
		}
		if kind != "" {
			k, err := stamp.ParseErrorKind(kind)
			if err != nil {
				return nil, fmt.Errorf("entry %d of %s: %w", e.Seq, operationID, err)
			}
			e.ErrorKind = k
		}
		e.Prior = specFromColumns(cols)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("finding entries: %w", err)
	}
	return entries, nil
}

// Path returns the journal file path, empty for wrapped connections.
func (s *SQLiteJournal) Path() string {
	return s.path
}

// CheckMigrations verifies the schema is up to date.
func (s *SQLiteJournal) CheckMigrations() error {
	return migrations.CheckStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteJournal) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOperation(sc scanner) (*Operation, error) {
	var (
		op       Operation
		mode     string
		cols     [3]sql.NullInt64
		undoOf   sql.NullString
		started  int64
		finished sql.NullInt64
		status   string
	)
	if err := sc.Scan(&op.ID, &op.Command, &mode, &cols[0], &cols[1], &cols[2], &undoOf, &started, &finished, &status); err != nil {
		return nil, err
	}
	m, err := stamp.ParseLinkMode(mode)
	if err != nil {
		return nil, fmt.Errorf("operation %s: %w", op.ID, err)
	}
	op.Mode = m
	op.Spec = specFromColumns(cols)
	op.UndoOf = undoOf.String
	op.StartedAt = time.UnixMilli(started).UTC()
	if finished.Valid {
		op.FinishedAt = time.UnixMilli(finished.Int64).UTC()
	}
	op.Status = Status(status)
	return &op, nil
}

func specColumns(s stamp.Spec) [3]sql.NullInt64 {
	var cols [3]sql.NullInt64
	for i, f := range stamp.AllFields {
		if ms, ok := s.Get(f); ok {
			cols[i] = sql.NullInt64{Int64: ms, Valid: true}
		}
	}
	return cols
}

func specFromColumns(cols [3]sql.NullInt64) stamp.Spec {
	var s stamp.Spec
	for i, f := range stamp.AllFields {
		if cols[i].Valid {
			s = s.With(f, cols[i].Int64)
		}
	}
	return s
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Journal = (*SQLiteJournal)(nil)
