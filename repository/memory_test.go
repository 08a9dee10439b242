package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"video-catalog/constant"
	"video-catalog/entities"
	"video-catalog/repository"
)

func seed(t *testing.T, repo repository.VideoRepository, owner uuid.UUID, n int) []*entities.Video {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	videos := make([]*entities.Video, 0, n)
	for i := 0; i < n; i++ {
		v := &entities.Video{
			ID:          uuid.New(),
			Title:       fmt.Sprintf("clip %02d", i),
			Description: "a short clip",
			Duration:    float64(i) * 1.5,
			OwnerId:     owner,
			IsPublished: true,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(context.Background(), v); err != nil {
			t.Fatalf("Create: %v", err)
		}
		videos = append(videos, v)
	}
	return videos
}

func TestMemoryListPagination(t *testing.T) {
	repo := repository.NewMemoryRepo()
	owner := uuid.New()
	seed(t, repo, owner, 25)

	tests := []struct {
		name      string
		skip      int64
		limit     int64
		wantLen   int
		wantFirst string
	}{
		{name: "first page", skip: 0, limit: 10, wantLen: 10, wantFirst: "clip 00"},
		{name: "second page", skip: 10, limit: 10, wantLen: 10, wantFirst: "clip 10"},
		{name: "last partial page", skip: 20, limit: 10, wantLen: 5, wantFirst: "clip 20"},
		{name: "past the end", skip: 30, limit: 10, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(context.Background(), repository.ListFilter{
				SortBy: constant.SortFieldTitle,
				Skip:   tt.skip,
				Limit:  tt.limit,
			})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Fatalf("len: got %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].Title != tt.wantFirst {
				t.Errorf("first: got %q, want %q", got[0].Title, tt.wantFirst)
			}
		})
	}
}

func TestMemoryListSortDirection(t *testing.T) {
	repo := repository.NewMemoryRepo()
	seed(t, repo, uuid.New(), 6)

	for _, desc := range []bool{false, true} {
		got, err := repo.List(context.Background(), repository.ListFilter{
			SortBy: constant.SortFieldDuration,
			Desc:   desc,
			Limit:  10,
		})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		for i := 1; i < len(got); i++ {
			prev, cur := got[i-1].Duration, got[i].Duration
			if desc && prev < cur {
				t.Errorf("desc: %v before %v", prev, cur)
			}
			if !desc && prev > cur {
				t.Errorf("asc: %v before %v", prev, cur)
			}
		}
	}
}

func TestMemoryListFilters(t *testing.T) {
	repo := repository.NewMemoryRepo()
	alice, bob := uuid.New(), uuid.New()
	seed(t, repo, alice, 3)
	seed(t, repo, bob, 2)

	special := &entities.Video{
		ID:          uuid.New(),
		Title:       "Cooking Pasta",
		Description: "100% durum (wheat)",
		OwnerId:     bob,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := repo.Create(context.Background(), special); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name    string
		filter  repository.ListFilter
		wantLen int
	}{
		{name: "owner", filter: repository.ListFilter{OwnerId: &alice}, wantLen: 3},
		{name: "other owner", filter: repository.ListFilter{OwnerId: &bob}, wantLen: 3},
		{name: "title case insensitive", filter: repository.ListFilter{Query: "PASTA"}, wantLen: 1},
		{name: "description literal", filter: repository.ListFilter{Query: "(wheat)"}, wantLen: 1},
		{name: "query and owner", filter: repository.ListFilter{OwnerId: &alice, Query: "pasta"}, wantLen: 0},
		{name: "no filter", filter: repository.ListFilter{}, wantLen: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Limit = 100
			got, err := repo.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("len: got %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestMemoryFindPopulatesOwner(t *testing.T) {
	user := entities.User{ID: uuid.New(), Email: "u1@example.com", Username: "u1"}
	repo := repository.NewMemoryRepo(user)
	videos := seed(t, repo, user.ID, 1)

	got, err := repo.FindByID(context.Background(), videos[0].ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.OwnerDetails == nil || *got.OwnerDetails != user {
		t.Errorf("owner details: got %+v, want %+v", got.OwnerDetails, user)
	}
}

func TestMemoryUpdateAndDelete(t *testing.T) {
	repo := repository.NewMemoryRepo()
	videos := seed(t, repo, uuid.New(), 1)
	id := videos[0].ID

	title := "renamed"
	published := false
	got, err := repo.Update(context.Background(), id, entities.VideoUpdate{Title: &title, IsPublished: &published})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != title || got.IsPublished {
		t.Errorf("update not applied: %+v", got)
	}
	if got.Description != videos[0].Description {
		t.Errorf("untouched field changed: %q", got.Description)
	}

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), id); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("FindByID after delete: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(context.Background(), id); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
	if _, err := repo.Update(context.Background(), id, entities.VideoUpdate{Title: &title}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Update after delete: got %v, want ErrNotFound", err)
	}
}
