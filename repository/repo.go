package repository

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"video-catalog/constant"
	"video-catalog/entities"
)

var ErrNotFound = errors.New("record not found")

type VideoRepository interface {
	List(ctx context.Context, filter ListFilter) ([]*entities.Video, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Video, error)
	Create(ctx context.Context, video *entities.Video) error
	Update(ctx context.Context, id uuid.UUID, update entities.VideoUpdate) (*entities.Video, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Migrate(ctx context.Context) error
}

type ListFilter struct {
	OwnerId *uuid.UUID
	// Query is matched case-insensitively as a literal substring of title or description.
	Query  string
	SortBy constant.SortField
	Desc   bool
	Skip   int64
	Limit  int64
}
