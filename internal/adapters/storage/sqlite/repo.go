package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/datefield/internal/app"
	"github.com/hylla/datefield/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository represents repository data used by this package.
type Repository struct {
	db *sql.DB
}

// Open opens the requested operation.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Every pooled connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			form_name TEXT NOT NULL,
			values_json TEXT NOT NULL DEFAULT '[]',
			submitted_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_form_time ON submissions(form_name, submitted_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// CreateSubmission stores one submission.
func (r *Repository) CreateSubmission(ctx context.Context, s domain.Submission) error {
	valuesJSON, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("encode submission values: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO submissions(id, form_name, values_json, submitted_at)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.FormName, string(valuesJSON), ts(s.SubmittedAt))
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetSubmission returns one submission by id.
func (r *Repository) GetSubmission(ctx context.Context, id string) (domain.Submission, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, form_name, values_json, submitted_at
		FROM submissions
		WHERE id = ?
	`, id)
	return scanSubmission(row)
}

// ListSubmissions lists submissions newest first.
func (r *Repository) ListSubmissions(ctx context.Context, filter app.SubmissionFilter) ([]domain.Submission, error) {
	query := `
		SELECT id, form_name, values_json, submitted_at
		FROM submissions
	`
	args := make([]any, 0, 2)
	if filter.FormName != "" {
		query += ` WHERE form_name = ?`
		args = append(args, filter.FormName)
	}
	query += ` ORDER BY submitted_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}

// scanner is the shared surface of *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanSubmission decodes one submissions row.
func scanSubmission(s scanner) (domain.Submission, error) {
	var (
		out          domain.Submission
		valuesRaw    string
		submittedRaw string
	)
	if err := s.Scan(&out.ID, &out.FormName, &valuesRaw, &submittedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Submission{}, app.ErrNotFound
		}
		return domain.Submission{}, err
	}
	if strings.TrimSpace(valuesRaw) == "" {
		valuesRaw = "[]"
	}
	if err := json.Unmarshal([]byte(valuesRaw), &out.Values); err != nil {
		return domain.Submission{}, fmt.Errorf("decode submission values: %w", err)
	}
	out.SubmittedAt = parseTS(submittedRaw)
	return out, nil
}

// tsLayout keeps every fraction digit so stored text sorts in time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ts formats timestamps for storage.
func ts(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

// parseTS parses input into a normalized form. Rows written with trimmed
// RFC3339Nano fractions still parse.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
