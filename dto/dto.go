package dto

import (
	"net/http"
	"video-catalog/constant"
)

// Response is the envelope every successful request is answered with.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func NewResponse(statusCode int, data any, message string) Response {
	if message == "" {
		message = "Success"
	}
	return Response{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < http.StatusBadRequest,
	}
}

type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

type ListVideosQuery struct {
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Query    string `form:"query"`
	SortBy   string `form:"sortBy"`
	SortType string `form:"sortType"`
	UserId   string `form:"userId"`
}

type PublishVideoRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

type UpdateVideoRequest struct {
	Title       *string `form:"title"`
	Description *string `form:"description"`
}

// UploadResult is what the media host reports for a stored asset.
type UploadResult struct {
	URL      string             `json:"url"`
	Key      string             `json:"key"`
	Kind     constant.AssetKind `json:"kind"`
	Duration *float64           `json:"duration,omitempty"`
}

type AssetCleanupMessage struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}
