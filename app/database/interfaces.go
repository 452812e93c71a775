package database

import (
	"context"
	"errors"
)

// ErrNotFound is returned by write operations that reference an id with no
// matching record.
var ErrNotFound = errors.New("record not found")

type GameRepository interface {
	List(ctx context.Context) ([]Game, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (*Game, error)
	Create(ctx context.Context, params GameParams) (*Game, error)
	BulkCreate(ctx context.Context, params []GameParams) ([]Game, error)
	Update(ctx context.Context, id int64, params GameParams) (*Game, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query SearchQuery) ([]Game, error)
}
