package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"video-catalog/constant"
	"video-catalog/dto"
	"video-catalog/entities"
	"video-catalog/pkg/auth"
	"video-catalog/repository"
	"video-catalog/server"
	"video-catalog/service"
)

var secret = []byte("router-test-secret")

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, localPath string, kind constant.AssetKind) (*dto.UploadResult, error) {
	if _, err := os.Stat(localPath); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%ss/%s", kind, uuid.NewString())
	result := &dto.UploadResult{URL: "http://media.local/videos/" + key, Key: key, Kind: kind}
	if kind == constant.AssetKindVideo {
		d := 61.237
		result.Duration = &d
	}
	return result, nil
}

func (stubUploader) Remove(context.Context, string) error {
	return nil
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

type fixture struct {
	router *gin.Engine
	owner  entities.User
	other  entities.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	owner := entities.User{ID: uuid.New(), Email: "owner@example.com", Username: "owner"}
	other := entities.User{ID: uuid.New(), Email: "other@example.com", Username: "other"}
	repo := repository.NewMemoryRepo(owner, other)
	svc := service.NewService(repo, stubUploader{}, nil)

	return &fixture{
		router: server.NewRouter(server.RouterDeps{
			Logger:         zerolog.Nop(),
			VideoService:   svc,
			JWTSecret:      secret,
			MaxUploadBytes: 8 << 20,
		}),
		owner: owner,
		other: other,
	}
}

func (f *fixture) do(t *testing.T, req *http.Request, as *entities.User) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if as != nil {
		token, err := auth.IssueToken(secret, as.ID, time.Hour)
		if err != nil {
			t.Fatalf("IssueToken: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var body envelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return w, body
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for field, name := range files {
		part, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(part, "payload of "+name); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (f *fixture) publish(t *testing.T, title string) entities.Video {
	t.Helper()
	req := multipartRequest(t, http.MethodPost, "/api/v1/videos",
		map[string]string{"title": title, "description": "about " + title},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"})

	w, body := f.do(t, req, &f.owner)
	if w.Code != http.StatusCreated {
		t.Fatalf("publish status = %d, body %s", w.Code, w.Body.String())
	}
	var video entities.Video
	if err := json.Unmarshal(body.Data, &video); err != nil {
		t.Fatalf("decode video: %v", err)
	}
	return video
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRequiresBearerToken(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "missing header", header: "", message: "Unauthorized request"},
		{name: "wrong scheme", header: "Basic abc", message: "Unauthorized request"},
		{name: "garbage token", header: "Bearer not-a-jwt", message: "Invalid access token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/videos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w, body := f.do(t, req, nil)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			if body.Success || body.Message != tt.message {
				t.Errorf("body = %+v", body)
			}
			if body.Errors == nil {
				t.Errorf("errors should be an empty list, got null")
			}
		})
	}
}

func TestPublishVideo(t *testing.T) {
	f := newFixture(t)
	video := f.publish(t, "First")

	if video.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if video.OwnerId != f.owner.ID {
		t.Errorf("owner = %s, want %s", video.OwnerId, f.owner.ID)
	}
	if !video.IsPublished {
		t.Error("new video should be published")
	}
	if video.Duration != 61.24 {
		t.Errorf("duration = %v, want 61.24", video.Duration)
	}
	if video.VideoFile == "" || video.Thumbnail == "" {
		t.Errorf("asset urls missing: %+v", video)
	}
}

func TestPublishVideoValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		fields  map[string]string
		files   map[string]string
		message string
	}{
		{
			name:    "missing description",
			fields:  map[string]string{"title": "t"},
			files:   map[string]string{"videoFile": "a.mp4", "thumbnail": "a.png"},
			message: "Title and description is required",
		},
		{
			name:    "missing video file",
			fields:  map[string]string{"title": "t", "description": "d"},
			files:   map[string]string{"thumbnail": "a.png"},
			message: "Video File is required",
		},
		{
			name:    "missing thumbnail",
			fields:  map[string]string{"title": "t", "description": "d"},
			files:   map[string]string{"videoFile": "a.mp4"},
			message: "Video Thumbnail is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, http.MethodPost, "/api/v1/videos", tt.fields, tt.files)
			w, body := f.do(t, req, &f.owner)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if body.Message != tt.message || body.StatusCode != http.StatusBadRequest {
				t.Errorf("body = %+v", body)
			}
		})
	}
}

func TestGetVideoById(t *testing.T) {
	f := newFixture(t)
	video := f.publish(t, "Lookup")

	w, body := f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+video.ID.String(), nil), &f.other)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got entities.Video
	if err := json.Unmarshal(body.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.OwnerDetails == nil || got.OwnerDetails.Username != "owner" {
		t.Errorf("owner details = %+v", got.OwnerDetails)
	}

	w, body = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+uuid.NewString(), nil), &f.other)
	if w.Code != http.StatusNotFound || body.Message != "Video not found" {
		t.Errorf("unknown id: status %d body %+v", w.Code, body)
	}
	if string(body.Data) != "null" || len(body.Errors) != 0 || body.Errors == nil {
		t.Errorf("error envelope = %+v", body)
	}

	w, _ = f.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/videos/not-a-uuid", nil), &f.other)
	if w.Code != http.StatusBadRequest {
		t.Errorf("malformed id: status %d, want 400", w.Code)
	}
}

func TestListVideos(t *testing.T) {
	f := newFixture(t)
	for _, title := range []string{"Go basics", "Rust basics", "Go advanced"} {
		f.publish(t, title)
	}

	tests := []struct {
		name   string
		target string
		status int
		want   int
	}{
		{name: "defaults", target: "/api/v1/videos", status: http.StatusOK, want: 3},
		{name: "query", target: "/api/v1/videos?query=go", status: http.StatusOK, want: 2},
		{name: "page size", target: "/api/v1/videos?page=2&limit=2", status: http.StatusOK, want: 1},
		{name: "page past end", target: "/api/v1/videos?page=5&limit=2", status: http.StatusOK, want: 0},
		{name: "page at int64 max", target: "/api/v1/videos?page=9223372036854775807&limit=10", status: http.StatusOK, want: 0},
		{name: "by owner", target: "/api/v1/videos?userId=" + f.other.ID.String(), status: http.StatusOK, want: 0},
		{name: "bad sort", target: "/api/v1/videos?sortBy=views", status: http.StatusBadRequest},
		{name: "bad page", target: "/api/v1/videos?page=zero", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := f.do(t, httptest.NewRequest(http.MethodGet, tt.target, nil), &f.owner)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			var videos []entities.Video
			if err := json.Unmarshal(body.Data, &videos); err != nil {
				t.Fatalf("data %s: %v", body.Data, err)
			}
			if videos == nil || len(videos) != tt.want {
				t.Errorf("got %d videos, want %d", len(videos), tt.want)
			}
		})
	}
}

func TestUpdateVideo(t *testing.T) {
	f := newFixture(t)
	video := f.publish(t, "Draft")
	target := "/api/v1/videos/" + video.ID.String()

	req := multipartRequest(t, http.MethodPatch, target, map[string]string{"title": "Hijacked"}, nil)
	w, body := f.do(t, req, &f.other)
	if w.Code != http.StatusUnauthorized || body.Message != "access denied" {
		t.Fatalf("non owner: status %d body %+v", w.Code, body)
	}

	req = multipartRequest(t, http.MethodPatch, target, nil, nil)
	w, body = f.do(t, req, &f.owner)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty update: status %d body %+v", w.Code, body)
	}

	req = multipartRequest(t, http.MethodPatch, target,
		map[string]string{"title": "Final"},
		map[string]string{"thumbnail": "new.png"})
	w, body = f.do(t, req, &f.owner)
	if w.Code != http.StatusCreated {
		t.Fatalf("owner update: status %d body %s", w.Code, w.Body.String())
	}
	var got entities.Video
	if err := json.Unmarshal(body.Data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "Final" || got.Description != video.Description {
		t.Errorf("updated = %+v", got)
	}
	if got.Thumbnail == video.Thumbnail {
		t.Error("thumbnail should be replaced")
	}
}

func TestTogglePublishStatus(t *testing.T) {
	f := newFixture(t)
	video := f.publish(t, "Toggle")
	target := "/api/v1/videos/toggle/publish/" + video.ID.String()

	w, _ := f.do(t, httptest.NewRequest(http.MethodPatch, target, nil), &f.other)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("non owner: status %d, want 401", w.Code)
	}

	for _, want := range []bool{false, true} {
		w, body := f.do(t, httptest.NewRequest(http.MethodPatch, target, nil), &f.owner)
		if w.Code != http.StatusOK {
			t.Fatalf("toggle: status %d body %s", w.Code, w.Body.String())
		}
		var got entities.Video
		if err := json.Unmarshal(body.Data, &got); err != nil {
			t.Fatal(err)
		}
		if got.IsPublished != want {
			t.Errorf("isPublished = %v, want %v", got.IsPublished, want)
		}
	}
}

func TestDeleteVideo(t *testing.T) {
	f := newFixture(t)
	video := f.publish(t, "Short lived")
	target := "/api/v1/videos/" + video.ID.String()

	w, _ := f.do(t, httptest.NewRequest(http.MethodDelete, target, nil), &f.other)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("non owner: status %d, want 401", w.Code)
	}

	w, body := f.do(t, httptest.NewRequest(http.MethodDelete, target, nil), &f.owner)
	if w.Code != http.StatusOK || !body.Success || string(body.Data) != "{}" {
		t.Fatalf("delete: status %d body %+v", w.Code, body)
	}

	w, _ = f.do(t, httptest.NewRequest(http.MethodGet, target, nil), &f.owner)
	if w.Code != http.StatusNotFound {
		t.Errorf("after delete: status %d, want 404", w.Code)
	}
	w, _ = f.do(t, httptest.NewRequest(http.MethodDelete, target, nil), &f.owner)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", w.Code)
	}
}
