package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/sitemapgen/internal/domain"
)

//go:embed schema.sql
var schema string

var (
	// ErrNotFound is returned when no run matches an id or prefix.
	ErrNotFound = errors.New("run not found")
	// ErrAmbiguous is returned when a prefix matches more than one run.
	ErrAmbiguous = errors.New("run id prefix is ambiguous")
)

// Store keeps the history of generation runs
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores a run and returns it with its new ID
func (s *Store) RecordRun(run domain.Run) (*domain.Run, error) {
	run.ID = uuid.New().String()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO runs (id, mode, base_url, output_dir, total_urls, started_at) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID, run.Mode, run.BaseURL, run.OutputDir, run.TotalURLs, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	for i, c := range run.Categories {
		_, err := tx.Exec(
			"INSERT INTO run_categories (run_id, position, category, count, file) VALUES (?, ?, ?, ?, ?)",
			run.ID, i, string(c.Category), c.Count, c.File,
		)
		if err != nil {
			return nil, fmt.Errorf("insert run category: %w", err)
		}
	}

	for i, w := range run.Warnings {
		_, err := tx.Exec(
			"INSERT INTO run_warnings (run_id, position, message) VALUES (?, ?, ?)",
			run.ID, i, w,
		)
		if err != nil {
			return nil, fmt.Errorf("insert run warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	return &run, nil
}

// GetRun retrieves a run by ID or unique ID prefix, with its categories and warnings
func (s *Store) GetRun(id string) (*domain.Run, error) {
	rows, err := s.db.Query(
		"SELECT id, mode, base_url, output_dir, total_urls, started_at FROM runs WHERE id = ? OR id LIKE ? ORDER BY id LIMIT 2",
		id, id+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}

	switch {
	case len(runs) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case len(runs) > 1 && runs[0].ID != id:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}

	run := runs[0]
	if run.Categories, err = s.runCategories(run.ID); err != nil {
		return nil, err
	}
	if run.Warnings, err = s.runWarnings(run.ID); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns recent runs, newest first. Warnings are not loaded.
func (s *Store) ListRuns(limit int) ([]domain.Run, error) {
	rows, err := s.db.Query(
		"SELECT id, mode, base_url, output_dir, total_urls, started_at FROM runs ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, err
	}

	for i := range runs {
		if runs[i].Categories, err = s.runCategories(runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func scanRuns(rows *sql.Rows) ([]domain.Run, error) {
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var r domain.Run
		if err := rows.Scan(&r.ID, &r.Mode, &r.BaseURL, &r.OutputDir, &r.TotalURLs, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) runCategories(runID string) ([]domain.CategoryCount, error) {
	rows, err := s.db.Query(
		"SELECT category, count, file FROM run_categories WHERE run_id = ? ORDER BY position",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get run categories: %w", err)
	}
	defer rows.Close()

	var counts []domain.CategoryCount
	for rows.Next() {
		var c domain.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count, &c.File); err != nil {
			return nil, fmt.Errorf("scan run category: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *Store) runWarnings(runID string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT message FROM run_warnings WHERE run_id = ? ORDER BY position",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get run warnings: %w", err)
	}
	defer rows.Close()

	var warnings []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan run warning: %w", err)
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}
