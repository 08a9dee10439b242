package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"video-catalog/constant"
	"video-catalog/dto"
	"video-catalog/entities"
	"video-catalog/pkg/apperror"
	"video-catalog/pkg/metrics"
	"video-catalog/repository"
)

const compensationTimeout = 30 * time.Second

// Uploader stores a local file on the media host.
type Uploader interface {
	Upload(ctx context.Context, localPath string, kind constant.AssetKind) (*dto.UploadResult, error)
	Remove(ctx context.Context, key string) error
}

// CleanupPublisher queues removal of an asset that could not be removed inline.
type CleanupPublisher interface {
	PublishCleanup(ctx context.Context, msg dto.AssetCleanupMessage) error
}

type VideoService interface {
	ListVideos(ctx context.Context, input ListVideosInput) ([]*entities.Video, error)
	PublishVideo(ctx context.Context, input PublishVideoInput) (*entities.Video, error)
	GetVideoById(ctx context.Context, videoId uuid.UUID) (*entities.Video, error)
	UpdateVideo(ctx context.Context, input UpdateVideoInput) (*entities.Video, error)
	DeleteVideo(ctx context.Context, videoId, callerId uuid.UUID) error
	TogglePublishStatus(ctx context.Context, videoId, callerId uuid.UUID) (*entities.Video, error)
}

type ListVideosInput struct {
	Page     int64
	Limit    int64
	Query    string
	SortBy   string
	SortType string
	OwnerId  *uuid.UUID
}

type PublishVideoInput struct {
	Title         string
	Description   string
	VideoFilePath string
	ThumbnailPath string
	CallerId      uuid.UUID
}

type UpdateVideoInput struct {
	VideoId       uuid.UUID
	CallerId      uuid.UUID
	Title         *string
	Description   *string
	ThumbnailPath string
}

type service struct {
	repo      repository.VideoRepository
	uploader  Uploader
	publisher CleanupPublisher
	now       func() time.Time
}

func NewService(repo repository.VideoRepository, uploader Uploader, publisher CleanupPublisher) VideoService {
	return &service{
		repo:      repo,
		uploader:  uploader,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) ListVideos(ctx context.Context, input ListVideosInput) ([]*entities.Video, error) {
	page, limit := input.Page, input.Limit
	if page < 1 {
		page = constant.DefaultPage
	}
	if limit < 1 {
		limit = constant.DefaultLimit
	}
	limit = min(limit, constant.MaxLimit)

	sortBy := constant.SortField(input.SortBy)
	if sortBy == "" {
		sortBy = constant.SortFieldCreatedAt
	}
	if !sortBy.Valid() {
		return nil, apperror.BadRequest("Invalid sortBy field",
			"sortBy must be one of createdAt, updatedAt, title, duration")
	}

	// A page whose offset does not fit in an int64 lies past any stored record.
	if page-1 > math.MaxInt64/limit {
		return []*entities.Video{}, nil
	}

	videos, err := s.repo.List(ctx, repository.ListFilter{
		OwnerId: input.OwnerId,
		Query:   strings.TrimSpace(input.Query),
		SortBy:  sortBy,
		Desc:    input.SortType == "desc",
		Skip:    (page - 1) * limit,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	if videos == nil {
		videos = []*entities.Video{}
	}
	return videos, nil
}

func (s *service) PublishVideo(ctx context.Context, input PublishVideoInput) (*entities.Video, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperror.BadRequest("Title and description is required")
	}
	if input.VideoFilePath == "" {
		return nil, apperror.BadRequest("Video File is required")
	}
	if input.ThumbnailPath == "" {
		return nil, apperror.BadRequest("Video Thumbnail is required")
	}

	videoAsset, err := s.uploader.Upload(ctx, input.VideoFilePath, constant.AssetKindVideo)
	if err != nil || videoAsset == nil || videoAsset.URL == "" || videoAsset.Duration == nil || *videoAsset.Duration < 0 {
		s.discard(ctx, "video upload incomplete", videoAsset)
		return nil, apperror.BadRequest("Video File not uploaded successfully").Wrap(err)
	}

	thumbnailAsset, err := s.uploader.Upload(ctx, input.ThumbnailPath, constant.AssetKindThumbnail)
	if err != nil || thumbnailAsset == nil || thumbnailAsset.URL == "" {
		s.discard(ctx, "thumbnail upload failed", videoAsset, thumbnailAsset)
		return nil, apperror.BadRequest("Video Thumbnail not uploaded successfully").Wrap(err)
	}

	now := s.now()
	video := &entities.Video{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		VideoFile:   videoAsset.URL,
		Thumbnail:   thumbnailAsset.URL,
		Duration:    roundDuration(*videoAsset.Duration),
		OwnerId:     input.CallerId,
		IsPublished: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, video); err != nil {
		s.discard(ctx, "video record not created", videoAsset, thumbnailAsset)
		return nil, fmt.Errorf("create video: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Str("video_id", video.ID.String()).
		Str("owner", video.OwnerId.String()).
		Float64("duration", video.Duration).
		Msg("video published")
	return video, nil
}

func (s *service) GetVideoById(ctx context.Context, videoId uuid.UUID) (*entities.Video, error) {
	video, err := s.repo.FindByID(ctx, videoId)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Video not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find video %s: %w", videoId, err)
	}
	return video, nil
}

func (s *service) UpdateVideo(ctx context.Context, input UpdateVideoInput) (*entities.Video, error) {
	if _, err := s.findOwned(ctx, input.VideoId, input.CallerId); err != nil {
		return nil, err
	}

	var update entities.VideoUpdate
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperror.BadRequest("Title cannot be empty")
		}
		update.Title = &title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperror.BadRequest("Description cannot be empty")
		}
		update.Description = &description
	}
	if update.Empty() && input.ThumbnailPath == "" {
		return nil, apperror.BadRequest("At least one field is required to update")
	}

	var thumbnailAsset *dto.UploadResult
	if input.ThumbnailPath != "" {
		asset, err := s.uploader.Upload(ctx, input.ThumbnailPath, constant.AssetKindThumbnail)
		if err != nil || asset == nil || asset.URL == "" {
			s.discard(ctx, "thumbnail upload failed", asset)
			return nil, apperror.Internal("Thumbnail not uploaded successfully").Wrap(err)
		}
		thumbnailAsset = asset
		update.Thumbnail = &asset.URL
	}

	video, err := s.repo.Update(ctx, input.VideoId, update)
	if err != nil {
		s.discard(ctx, "video record not updated", thumbnailAsset)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Video not found")
		}
		return nil, fmt.Errorf("update video %s: %w", input.VideoId, err)
	}

	zerolog.Ctx(ctx).Info().Str("video_id", video.ID.String()).Msg("video updated")
	return video, nil
}

func (s *service) DeleteVideo(ctx context.Context, videoId, callerId uuid.UUID) error {
	if _, err := s.findOwned(ctx, videoId, callerId); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, videoId)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("Video not found")
	}
	if err != nil {
		return fmt.Errorf("delete video %s: %w", videoId, err)
	}

	zerolog.Ctx(ctx).Info().Str("video_id", videoId.String()).Msg("video deleted")
	return nil
}

func (s *service) TogglePublishStatus(ctx context.Context, videoId, callerId uuid.UUID) (*entities.Video, error) {
	video, err := s.findOwned(ctx, videoId, callerId)
	if err != nil {
		return nil, err
	}

	published := !video.IsPublished
	updated, err := s.repo.Update(ctx, videoId, entities.VideoUpdate{IsPublished: &published})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound("Video not found")
	}
	if err != nil {
		return nil, fmt.Errorf("toggle publish status %s: %w", videoId, err)
	}

	zerolog.Ctx(ctx).Info().Str("video_id", videoId.String()).Bool("is_published", published).Msg("publish status toggled")
	return updated, nil
}

func (s *service) findOwned(ctx context.Context, videoId, callerId uuid.UUID) (*entities.Video, error) {
	video, err := s.GetVideoById(ctx, videoId)
	if err != nil {
		return nil, err
	}
	if video.OwnerId != callerId {
		zerolog.Ctx(ctx).Warn().
			Str("video_id", videoId.String()).
			Str("caller", callerId.String()).
			Msg("caller is not the video owner")
		return nil, apperror.Unauthorized("access denied")
	}
	return video, nil
}

// discard removes assets uploaded by a request that did not complete. An asset
// that cannot be removed now is queued for the cleanup consumer.
func (s *service) discard(ctx context.Context, reason string, assets ...*dto.UploadResult) {
	// The request context is often already cancelled here, typically by a client
	// that went away during the record write.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	for _, asset := range assets {
		if asset == nil || asset.Key == "" {
			continue
		}

		err := s.uploader.Remove(ctx, asset.Key)
		if err == nil {
			continue
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", asset.Key).Msg("failed to remove asset, queueing cleanup")

		if s.publisher == nil {
			metrics.ObserveOrphanedAsset()
			zerolog.Ctx(ctx).Error().Str("key", asset.Key).Msg("asset orphaned: no cleanup queue")
			continue
		}
		msg := dto.AssetCleanupMessage{Key: asset.Key, Reason: reason}
		if err := s.publisher.PublishCleanup(ctx, msg); err != nil {
			metrics.ObserveOrphanedAsset()
			zerolog.Ctx(ctx).Error().Err(err).Str("key", asset.Key).Msg("asset orphaned: cleanup not queued")
		}
	}
}

func roundDuration(d float64) float64 {
	return math.Round(d*100) / 100
}
