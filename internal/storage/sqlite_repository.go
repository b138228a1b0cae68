package storage

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

// sqliteTimeLayout is fixed width so completed_at sorts chronologically as
// text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

// OpenSQLite opens the database at path, creating its directory and applying
// pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, mustTime(r.now()),
	)
	return err
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) CreateSession(ctx context.Context, in Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, mode, task_id, task_text, duration_sec, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.Mode, in.TaskID, in.TaskText, in.DurationSec, mustTime(in.CompletedAt),
	)
	return err
}

func (r *SQLiteRepository) ListSessions(ctx context.Context, filter SessionListFilter) ([]Session, error) {
	query := `SELECT id, mode, task_id, task_text, duration_sec, completed_at FROM sessions`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.Since != nil {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, mustTime(*filter.Since))
	}
	if filter.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, filter.Mode)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY completed_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Session, 0)
	for rows.Next() {
		item, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

// parseRequiredTime also accepts the trimmed RFC 3339 form older rows used.
func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, v)
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (Session, error) {
	var out Session
	var completed string
	if err := s.Scan(&out.ID, &out.Mode, &out.TaskID, &out.TaskText, &out.DurationSec, &completed); err != nil {
		return Session{}, err
	}
	completedAt, err := parseRequiredTime(completed)
	if err != nil {
		return Session{}, err
	}
	out.CompletedAt = completedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
