package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"video-catalog/constant"
	"video-catalog/entities"
)

var sortColumns = map[constant.SortField]string{
	constant.SortFieldCreatedAt: "created_at",
	constant.SortFieldUpdatedAt: "updated_at",
	constant.SortFieldTitle:     "title",
	constant.SortFieldDuration:  "duration",
}

type postgresRepo struct {
	db *gorm.DB
}

func NewPostgresRepo(db *sql.DB, debug bool) (VideoRepository, error) {
	logMode := logger.Warn
	if debug {
		logMode = logger.Info
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger:                                   logger.Default.LogMode(logMode),
			DisableForeignKeyConstraintWhenMigrating: true,
		},
	)
	if err != nil {
		return nil, err
	}
	return &postgresRepo{
		db: gormDB,
	}, nil
}

func (r *postgresRepo) GetDB() *gorm.DB {
	return r.db
}

func (r *postgresRepo) List(ctx context.Context, filter ListFilter) ([]*entities.Video, error) {
	query := r.GetDB().WithContext(ctx).Model(&entities.Video{})
	if filter.OwnerId != nil {
		query = query.Where("owner_id = ?", *filter.OwnerId)
	}
	if filter.Query != "" {
		pattern := "%" + escapeLike(filter.Query) + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns[constant.SortFieldCreatedAt]
	}

	videos := make([]*entities.Video, 0, filter.Limit)
	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: filter.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: filter.Desc}).
		Offset(int(filter.Skip)).
		Limit(int(filter.Limit)).
		Find(&videos).Error
	if err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *postgresRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	video := &entities.Video{}
	err := r.GetDB().WithContext(ctx).Preload("OwnerDetails").First(video, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (r *postgresRepo) Create(ctx context.Context, video *entities.Video) error {
	return r.GetDB().WithContext(ctx).Omit(clause.Associations).Create(video).Error
}

func (r *postgresRepo) Update(ctx context.Context, id uuid.UUID, update entities.VideoUpdate) (*entities.Video, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if update.Title != nil {
		updates["title"] = *update.Title
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.Thumbnail != nil {
		updates["thumbnail"] = *update.Thumbnail
	}
	if update.IsPublished != nil {
		updates["is_published"] = *update.IsPublished
	}

	result := r.GetDB().WithContext(ctx).Model(&entities.Video{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *postgresRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.GetDB().WithContext(ctx).Delete(&entities.Video{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// schemaModels lists the tables Migrate creates. users comes first so the
// owner preload has a table to read from on a fresh database.
func schemaModels() []any {
	return []any{&entities.User{}, &entities.Video{}}
}

func (r *postgresRepo) Migrate(ctx context.Context) error {
	if err := r.GetDB().WithContext(ctx).AutoMigrate(schemaModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
