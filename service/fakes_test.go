package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"video-catalog/constant"
	"video-catalog/dto"
	"video-catalog/entities"
	"video-catalog/repository"
)

type fakeUploader struct {
	mu        sync.Mutex
	duration  float64
	failKind  constant.AssetKind
	removeErr error
	uploaded  []string
	removed   []string
}

func (u *fakeUploader) Upload(_ context.Context, localPath string, kind constant.AssetKind) (*dto.UploadResult, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if kind == u.failKind {
		return nil, fmt.Errorf("upload %s: media host unavailable", localPath)
	}
	key := fmt.Sprintf("%ss/%s", kind, uuid.NewString())
	u.uploaded = append(u.uploaded, key)

	result := &dto.UploadResult{URL: "http://media.local/videos/" + key, Key: key, Kind: kind}
	if kind == constant.AssetKindVideo {
		d := u.duration
		result.Duration = &d
	}
	return result, nil
}

func (u *fakeUploader) Remove(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if u.removeErr != nil {
		return u.removeErr
	}
	u.removed = append(u.removed, key)
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []dto.AssetCleanupMessage
}

func (p *fakePublisher) PublishCleanup(ctx context.Context, msg dto.AssetCleanupMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	p.messages = append(p.messages, msg)
	return nil
}

// brokenRepo fails every write and delegates reads.
type brokenRepo struct {
	repository.VideoRepository
}

var errStoreDown = errors.New("store down")

func (brokenRepo) Create(context.Context, *entities.Video) error {
	return errStoreDown
}

func (brokenRepo) Update(context.Context, uuid.UUID, entities.VideoUpdate) (*entities.Video, error) {
	return nil, errStoreDown
}

// cancellingRepo cancels the request context during Create, like a client
// that disconnects while the record is being written.
type cancellingRepo struct {
	repository.VideoRepository
	cancel context.CancelFunc
}

func (r cancellingRepo) Create(ctx context.Context, _ *entities.Video) error {
	r.cancel()
	return ctx.Err()
}
