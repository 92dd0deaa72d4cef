// Package history persists one row per evaluated dataset per run, so past
// accuracies can be listed and compared across models.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultLimit = 50

type Store struct {
	db *sql.DB
}

type Entry struct {
	ID       int64
	Model    string
	Provider string
	Dataset  string
	Correct  int
	Total    int
	Accuracy float64
	RunAt    time.Time
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Dataset string
	Model   string
	Limit   int
}

func NewStore(dbPath string) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, errors.New("history: empty db path")
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("history: create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: ping db: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("history: nil db")
	}

	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS eval_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model TEXT NOT NULL,
			provider TEXT NOT NULL,
			dataset TEXT NOT NULL,
			correct INTEGER NOT NULL,
			total INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			run_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_runs_dataset ON eval_runs(dataset)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_runs_model_dataset ON eval_runs(model, dataset)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_runs_run_at ON eval_runs(run_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("history: init schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Save(ctx context.Context, entry *Entry) error {
	if s == nil || s.db == nil {
		return errors.New("history: nil store")
	}
	if ctx == nil {
		return errors.New("history: nil context")
	}
	if entry == nil {
		return errors.New("history: nil entry")
	}

	model := strings.TrimSpace(entry.Model)
	provider := strings.TrimSpace(entry.Provider)
	dataset := strings.TrimSpace(entry.Dataset)
	if model == "" || provider == "" || dataset == "" {
		return errors.New("history: missing model/provider/dataset")
	}

	runAt := entry.RunAt
	if runAt.IsZero() {
		runAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO eval_runs (
			model, provider, dataset, correct, total, accuracy, run_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, model, provider, dataset, entry.Correct, entry.Total, entry.Accuracy, runAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("history: insert entry: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		entry.ID = id
	}
	entry.RunAt = runAt
	entry.Model = model
	entry.Provider = provider
	entry.Dataset = dataset
	return nil
}

// List returns stored runs, newest first, filtered by dataset and model
// when those are set.
func (s *Store) List(ctx context.Context, filter Filter) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history: nil store")
	}
	if ctx == nil {
		return nil, errors.New("history: nil context")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := `
		SELECT id, model, provider, dataset, correct, total, accuracy, run_at
		FROM eval_runs`
	var conds []string
	var args []any
	if dataset := strings.TrimSpace(filter.Dataset); dataset != "" {
		conds = append(conds, "dataset = ?")
		args = append(args, dataset)
	}
	if model := strings.TrimSpace(filter.Model); model != "" {
		conds = append(conds, "model = ?")
		args = append(args, model)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY run_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// ModelHistory returns every stored run for one model on one dataset,
// newest first.
func (s *Store) ModelHistory(ctx context.Context, model, dataset string) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("history: nil store")
	}
	if ctx == nil {
		return nil, errors.New("history: nil context")
	}
	model = strings.TrimSpace(model)
	dataset = strings.TrimSpace(dataset)
	if model == "" || dataset == "" {
		return nil, errors.New("history: missing model/dataset")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, model, provider, dataset, correct, total, accuracy, run_at
		FROM eval_runs
		WHERE model = ? AND dataset = ?
		ORDER BY run_at DESC, id DESC
	`, model, dataset)
	if err != nil {
		return nil, fmt.Errorf("history: query model history: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func scanRows(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var runAtMS int64
		if err := rows.Scan(
			&e.ID,
			&e.Model,
			&e.Provider,
			&e.Dataset,
			&e.Correct,
			&e.Total,
			&e.Accuracy,
			&runAtMS,
		); err != nil {
			return nil, fmt.Errorf("history: scan entry: %w", err)
		}
		e.RunAt = time.UnixMilli(runAtMS).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: scan rows: %w", err)
	}
	return out, nil
}
