package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"video-catalog/handler"
	"video-catalog/pkg/apperror"
	"video-catalog/pkg/auth"
	"video-catalog/pkg/metrics"
	"video-catalog/service"
)

type RouterDeps struct {
	Logger         zerolog.Logger
	VideoService   service.VideoService
	JWTSecret      []byte
	MaxUploadBytes int64
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(deps.Logger), metrics.Middleware())
	r.MaxMultipartMemory = 32 << 20

	addHealth(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	api.Use(handler.Wrap(auth.Authenticate(deps.JWTSecret)))

	videos := handler.NewVideoHandler(deps.VideoService, deps.MaxUploadBytes)
	videos.Register(api.Group("/videos"))

	r.NoRoute(handler.Wrap(func(c *gin.Context) error {
		return apperror.NotFound("Route not found")
	}))
	return r
}

func addHealth(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
