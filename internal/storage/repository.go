package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/punchlist/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the task store. Mutations addressed by id return ErrNotFound
// and leave the store untouched when no record matches.
type Repository interface {
	ListByCompletion(ctx context.Context, complete bool) ([]model.Task, error)
	Create(ctx context.Context, text string) (model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	UpdateText(ctx context.Context, id int64, text string) error
	UpdateCompletion(ctx context.Context, id int64, complete bool) error
	DeleteByID(ctx context.Context, id int64) error
	DeleteWhereCompleted(ctx context.Context) (int64, error)
}
