package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"video-catalog/constant"
	"video-catalog/entities"
)

// memoryRepo keeps videos in process. Used for local development and tests.
type memoryRepo struct {
	mu     sync.RWMutex
	videos map[uuid.UUID]entities.Video
	users  map[uuid.UUID]entities.User
}

func NewMemoryRepo(users ...entities.User) VideoRepository {
	r := &memoryRepo{
		videos: make(map[uuid.UUID]entities.Video),
		users:  make(map[uuid.UUID]entities.User, len(users)),
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memoryRepo) List(_ context.Context, filter ListFilter) ([]*entities.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	matched := make([]entities.Video, 0, len(r.videos))
	for _, v := range r.videos {
		if filter.OwnerId != nil && v.OwnerId != *filter.OwnerId {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(v.Title), query) &&
			!strings.Contains(strings.ToLower(v.Description), query) {
			continue
		}
		matched = append(matched, v)
	}

	sort.Slice(matched, func(i, j int) bool {
		c := compareVideos(matched[i], matched[j], filter.SortBy)
		if c == 0 {
			c = strings.Compare(matched[i].ID.String(), matched[j].ID.String())
		}
		if filter.Desc {
			return c > 0
		}
		return c < 0
	})

	start := min(max(filter.Skip, 0), int64(len(matched)))
	end := int64(len(matched))
	if filter.Limit > 0 {
		end = min(start+filter.Limit, end)
	}

	videos := make([]*entities.Video, 0, end-start)
	for _, v := range matched[start:end] {
		video := v
		videos = append(videos, &video)
	}
	return videos, nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u, ok := r.users[v.OwnerId]; ok {
		v.OwnerDetails = &u
	}
	return &v, nil
}

func (r *memoryRepo) Create(_ context.Context, video *entities.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.videos[video.ID]; ok {
		return fmt.Errorf("video %s already exists", video.ID)
	}
	v := *video
	v.OwnerDetails = nil
	r.videos[v.ID] = v
	return nil
}

func (r *memoryRepo) Update(_ context.Context, id uuid.UUID, update entities.VideoUpdate) (*entities.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	update.Apply(&v)
	v.UpdatedAt = time.Now().UTC()
	r.videos[id] = v
	return &v, nil
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.videos[id]; !ok {
		return ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *memoryRepo) Migrate(context.Context) error {
	return nil
}

func compareVideos(a, b entities.Video, field constant.SortField) int {
	switch field {
	case constant.SortFieldTitle:
		return strings.Compare(a.Title, b.Title)
	case constant.SortFieldDuration:
		return compareFloat(a.Duration, b.Duration)
	case constant.SortFieldUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
