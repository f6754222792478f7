package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sandeepkv93/punchlist/internal/model"
)

// Fixed width so that text comparison in SQLite matches chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

const taskColumns = `id, task, complete, created_at, updated_at`

func formatTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var complete int
	var created, updated string
	if err := s.Scan(&out.ID, &out.Text, &complete, &created, &updated); err != nil {
		return model.Task{}, err
	}
	createdAt, err := parseTime(created)
	if err != nil {
		return model.Task{}, err
	}
	updatedAt, err := parseTime(updated)
	if err != nil {
		return model.Task{}, err
	}
	out.Complete = complete == 1
	out.CreatedAt = createdAt
	out.UpdatedAt = updatedAt
	if err := out.Validate(); err != nil {
		return model.Task{}, fmt.Errorf("task %d: %w", out.ID, err)
	}
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
