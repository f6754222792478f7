package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/punchlist/internal/model"
)

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time

	mu     sync.Mutex
	last   time.Time
	seeded bool
}

var _ Repository = (*SQLiteRepository)(nil)

type Option func(*SQLiteRepository)

// WithClock replaces time.Now as the source of created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		if now != nil {
			r.now = now
		}
	}
}

func NewSQLiteRepository(db *sql.DB, opts ...Option) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	r := &SQLiteRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func OpenSQLite(path string, opts ...Option) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer avoids SQLITE_BUSY on concurrent requests.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Migrate() error {
	return MigrateUp(r.db)
}

// Rollback applies the down migrations, dropping the tasks table.
func (r *SQLiteRepository) Rollback() error {
	return MigrateDown(r.db)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// stamp returns the next mutation timestamp. Successive stamps strictly
// increase even when the clock does not advance between calls, and never fall
// behind the newest updated_at already stored.
func (r *SQLiteRepository) stamp(ctx context.Context) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.seeded {
		var latest sql.NullString
		if err := r.db.QueryRowContext(ctx, `SELECT MAX(updated_at) FROM tasks`).Scan(&latest); err != nil {
			return time.Time{}, fmt.Errorf("load latest stamp: %w", err)
		}
		if latest.Valid {
			t, err := parseTime(latest.String)
			if err != nil {
				return time.Time{}, fmt.Errorf("parse latest stamp: %w", err)
			}
			r.last = t
		}
		r.seeded = true
	}
	now := r.now().UTC()
	if !now.After(r.last) {
		now = r.last.Add(time.Nanosecond)
	}
	r.last = now
	return now, nil
}

func (r *SQLiteRepository) ListByCompletion(ctx context.Context, complete bool) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE complete = ? ORDER BY id ASC`, boolInt(complete))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Create(ctx context.Context, text string) (model.Task, error) {
	now, err := r.stamp(ctx)
	if err != nil {
		return model.Task{}, err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (task, complete, created_at, updated_at)
		VALUES (?, 0, ?, ?)`,
		text, formatTime(now), formatTime(now),
	)
	if err != nil {
		return model.Task{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	return model.Task{
		ID:        id,
		Text:      text,
		Complete:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (model.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateText(ctx context.Context, id int64, text string) error {
	now, err := r.stamp(ctx)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET task = ?, updated_at = ? WHERE id = ?`,
		text, formatTime(now), id,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) UpdateCompletion(ctx context.Context, id int64, complete bool) error {
	now, err := r.stamp(ctx)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET complete = ?, updated_at = ? WHERE id = ?`,
		boolInt(complete), formatTime(now), id,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteWhereCompleted(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE complete = 1`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
