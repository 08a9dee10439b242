package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"video-catalog/dto"
	"video-catalog/pkg/apperror"
	"video-catalog/pkg/auth"
	"video-catalog/service"
)

const (
	fieldVideoFile = "videoFile"
	fieldThumbnail = "thumbnail"
)

type VideoHandler struct {
	svc            service.VideoService
	maxUploadBytes int64
}

func NewVideoHandler(svc service.VideoService, maxUploadBytes int64) *VideoHandler {
	return &VideoHandler{
		svc:            svc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *VideoHandler) Register(r gin.IRouter) {
	r.GET("", Wrap(h.ListVideos))
	r.POST("", Wrap(h.PublishVideo))
	r.GET("/:videoId", Wrap(h.GetVideoById))
	r.PATCH("/:videoId", Wrap(h.UpdateVideo))
	r.DELETE("/:videoId", Wrap(h.DeleteVideo))
	r.PATCH("/toggle/publish/:videoId", Wrap(h.TogglePublishStatus))
}

func (h *VideoHandler) ListVideos(c *gin.Context) error {
	var query dto.ListVideosQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return apperror.BadRequest("Invalid query parameters").Wrap(err)
	}

	page, err := positiveInt("page", query.Page)
	if err != nil {
		return err
	}
	limit, err := positiveInt("limit", query.Limit)
	if err != nil {
		return err
	}

	input := service.ListVideosInput{
		Page:     page,
		Limit:    limit,
		Query:    query.Query,
		SortBy:   query.SortBy,
		SortType: query.SortType,
	}
	if query.UserId != "" {
		ownerId, err := uuid.Parse(query.UserId)
		if err != nil {
			return apperror.BadRequest("Invalid userId").Wrap(err)
		}
		input.OwnerId = &ownerId
	}

	videos, err := h.svc.ListVideos(c.Request.Context(), input)
	if err != nil {
		return err
	}
	respond(c, http.StatusOK, videos, "Videos fetched successfully")
	return nil
}

func (h *VideoHandler) PublishVideo(c *gin.Context) error {
	callerId, err := auth.CallerId(c)
	if err != nil {
		return err
	}

	h.limitBody(c)
	var req dto.PublishVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		return apperror.BadRequest("Invalid form data").Wrap(err)
	}

	dir, err := os.MkdirTemp("", "video-upload-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	videoPath, err := saveFormFile(c, fieldVideoFile, dir)
	if err != nil {
		return err
	}
	thumbnailPath, err := saveFormFile(c, fieldThumbnail, dir)
	if err != nil {
		return err
	}

	video, err := h.svc.PublishVideo(c.Request.Context(), service.PublishVideoInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoFilePath: videoPath,
		ThumbnailPath: thumbnailPath,
		CallerId:      callerId,
	})
	if err != nil {
		return err
	}
	respond(c, http.StatusCreated, video, "Your video is published successfully")
	return nil
}

func (h *VideoHandler) GetVideoById(c *gin.Context) error {
	videoId, err := videoIdParam(c)
	if err != nil {
		return err
	}

	video, err := h.svc.GetVideoById(c.Request.Context(), videoId)
	if err != nil {
		return err
	}
	respond(c, http.StatusOK, video, "Video fetched successfully")
	return nil
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) error {
	videoId, err := videoIdParam(c)
	if err != nil {
		return err
	}
	callerId, err := auth.CallerId(c)
	if err != nil {
		return err
	}

	h.limitBody(c)
	var req dto.UpdateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		return apperror.BadRequest("Invalid form data").Wrap(err)
	}

	dir, err := os.MkdirTemp("", "video-upload-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	thumbnailPath, err := saveFormFile(c, fieldThumbnail, dir)
	if err != nil {
		return err
	}

	video, err := h.svc.UpdateVideo(c.Request.Context(), service.UpdateVideoInput{
		VideoId:       videoId,
		CallerId:      callerId,
		Title:         req.Title,
		Description:   req.Description,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		return err
	}
	respond(c, http.StatusCreated, video, "Video updated successfully")
	return nil
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) error {
	videoId, err := videoIdParam(c)
	if err != nil {
		return err
	}
	callerId, err := auth.CallerId(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteVideo(c.Request.Context(), videoId, callerId); err != nil {
		return err
	}
	respond(c, http.StatusOK, gin.H{}, "Video deleted successfully")
	return nil
}

func (h *VideoHandler) TogglePublishStatus(c *gin.Context) error {
	videoId, err := videoIdParam(c)
	if err != nil {
		return err
	}
	callerId, err := auth.CallerId(c)
	if err != nil {
		return err
	}

	video, err := h.svc.TogglePublishStatus(c.Request.Context(), videoId, callerId)
	if err != nil {
		return err
	}
	respond(c, http.StatusOK, video, "Publish status toggled")
	return nil
}

func (h *VideoHandler) limitBody(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
}

func videoIdParam(c *gin.Context) (uuid.UUID, error) {
	videoId, err := uuid.Parse(c.Param("videoId"))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("Invalid video id").Wrap(err)
	}
	return videoId, nil
}

// positiveInt parses an optional query value. Absent means 0, which the
// service replaces with its default.
func positiveInt(name, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, apperror.BadRequest(name + " must be a positive integer")
	}
	return n, nil
}

// saveFormFile stores the named multipart part in dir and returns its path,
// or "" when the part is absent.
func saveFormFile(c *gin.Context, field, dir string) (string, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", apperror.BadRequest("Invalid multipart form").Wrap(err)
	}

	path := filepath.Join(dir, field+strings.ToLower(filepath.Ext(header.Filename)))
	if err := c.SaveUploadedFile(header, path); err != nil {
		return "", err
	}
	return path, nil
}
