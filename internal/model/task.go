package model

import (
	"errors"
	"sort"
	"strings"
	"time"
	"unicode"
)

var ErrInvalidID = errors.New("model: invalid task id")

type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"task"`
	Complete  bool      `json:"complete"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t Task) Validate() error {
	if t.ID <= 0 {
		return ErrInvalidID
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return errors.New("model: task updated_at precedes created_at")
	}
	return nil
}

// HasText reports whether s carries at least one non-whitespace rune.
func HasText(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}

// SortCompleted orders tasks most recently updated first. Ties keep the
// higher id first so the order is stable across refetches.
func SortCompleted(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].UpdatedAt.Equal(tasks[j].UpdatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
	})
}
