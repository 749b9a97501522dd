// Package sqliteio publishes clean tables into a SQLite database and keeps
// a history of run diagnostics next to them.
package sqliteio

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// DateLayout is how time cells are stored.
const DateLayout = "2006-01-02"

const runsSchema = `
CREATE TABLE IF NOT EXISTS cleaning_runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	table_name  TEXT NOT NULL,
	metric      TEXT NOT NULL,
	value       INTEGER NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS cleaning_runs_run_id ON cleaning_runs (run_id);
`

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrBadName is returned for table names that are not plain identifiers.
var ErrBadName = errors.New("invalid table name")

// Store wraps a SQLite database.
type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

// Open creates or opens the database at path, applies pragmas and ensures
// the cleaning_runs table exists.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(runsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tracking table: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// DB returns the underlying handle for ad hoc queries.
func (s *Store) DB() *sqlx.DB { return s.db }

func sqlType(k j.Kind) string {
	switch k {
	case j.KindInt, j.KindBool:
		return "INTEGER"
	case j.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

func quote(name string) string { return `"` + strings.ReplaceAll(name, `"`, `""`) + `"` }

// Publish replaces table with the contents of f and (re)creates the
// read-only view <table>_view over it. All of it happens in one
// transaction, so readers see either the old table or the new one.
func (s *Store) Publish(ctx context.Context, table string, f *j.Frame) (err error) {
	if !identRe.MatchString(table) {
		return fmt.Errorf("%w: %q", ErrBadName, table)
	}
	view := table + "_view"
	schema := f.Schema()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.log.Error("failed to rollback transaction", zap.Error(rbErr), zap.NamedError("cause", err))
			}
		}
	}()

	defs := make([]string, len(schema.Columns))
	names := make([]string, len(schema.Columns))
	marks := make([]string, len(schema.Columns))
	for i, cs := range schema.Columns {
		defs[i] = quote(cs.Name) + " " + sqlType(cs.Type)
		names[i] = quote(cs.Name)
		marks[i] = "?"
	}
	stmts := []string{
		"DROP VIEW IF EXISTS " + quote(view),
		"DROP TABLE IF EXISTS " + quote(table),
		"CREATE TABLE " + quote(table) + " (" + strings.Join(defs, ", ") + ")",
		"CREATE VIEW " + quote(view) + " AS SELECT " + strings.Join(names, ", ") + " FROM " + quote(table),
	}
	for _, q := range stmts {
		if _, err = tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to execute %q: %w", q, err)
		}
	}

	insert := "INSERT INTO " + quote(table) + " (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ")"
	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	cols := make([]j.Column, len(schema.Columns))
	for i, cs := range schema.Columns {
		cols[i], _ = f.ColumnByName(cs.Name)
	}
	args := make([]any, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for i, col := range cols {
			args[i] = cellValue(col, r)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", r, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Info("published table", zap.String("table", table), zap.String("view", view), zap.Int("rows", f.Rows()))
	return nil
}

func cellValue(col j.Column, r int) any {
	if col.IsNull(r) {
		return nil
	}
	switch c := col.(type) {
	case *j.IntColumn:
		v, _ := c.Get(r)
		return v
	case *j.FloatColumn:
		v, _ := c.Get(r)
		return v
	case *j.BoolColumn:
		v, _ := c.Get(r)
		return v
	case *j.StringColumn:
		v, _ := c.Get(r)
		return v
	case *j.TimeColumn:
		v, _ := c.Get(r)
		return v.Format(DateLayout)
	}
	return nil
}

// RunMetric is one diagnostic value recorded for a run.
type RunMetric struct {
	RunID      string    `db:"run_id"`
	Table      string    `db:"table_name"`
	Metric     string    `db:"metric"`
	Value      int64     `db:"value"`
	RecordedAt time.Time `db:"recorded_at"`
}

// RecordRun stores every count of a run as its own row in cleaning_runs.
func (s *Store) RecordRun(ctx context.Context, runID, table string, counts map[string]int, at time.Time) (err error) {
	if len(counts) == 0 {
		return nil
	}
	metrics := make([]string, 0, len(counts))
	for k := range counts {
		metrics = append(metrics, k)
	}
	sort.Strings(metrics)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	const q = `INSERT INTO cleaning_runs (run_id, table_name, metric, value, recorded_at)
		VALUES (:run_id, :table_name, :metric, :value, :recorded_at)`
	for _, m := range metrics {
		row := RunMetric{RunID: runID, Table: table, Metric: m, Value: int64(counts[m]), RecordedAt: at.UTC()}
		if _, err = tx.NamedExecContext(ctx, q, row); err != nil {
			return fmt.Errorf("failed to insert run metric %s: %w", m, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Info("recorded run", zap.String("run_id", runID), zap.Int("metrics", len(metrics)))
	return nil
}

// RunMetrics returns the metrics recorded for runID, sorted by name.
func (s *Store) RunMetrics(ctx context.Context, runID string) ([]RunMetric, error) {
	var out []RunMetric
	err := s.db.SelectContext(ctx, &out,
		`SELECT run_id, table_name, metric, value, recorded_at FROM cleaning_runs WHERE run_id = ? ORDER BY metric`, runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return out, err
}
