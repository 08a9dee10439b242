package server

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"video-catalog/config"
	"video-catalog/constant"
	"video-catalog/handler"
	"video-catalog/pkg/media"
	"video-catalog/pkg/rabbitmq"
	"video-catalog/service"
)

func RunHttp(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(SetupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}

	repo, closeRepo, err := OpenRepository(ctx, cfg)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("OpenRepository")
		return err
	}
	defer closeRepo()

	uploader, err := NewUploader(cfg)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewUploader")
		return err
	}

	// The API keeps serving without RabbitMQ; failed compensations are then only logged.
	conn, err := config.NewRabbitMQConn(ctx, cfg.Queue)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewRabbitMQConn")
		conn = nil
	}

	topology := rabbitmq.AssetCleanupTopology(cfg.Queue)
	publisher := rabbitmq.NewPublisher(conn, cfg.Queue, topology)
	videoService := service.NewService(repo, uploader, publisher)

	if conn != nil {
		startCleanupConsumer(ctx, conn, cfg, topology, handler.ServiceDependencies{Uploader: uploader})
	}

	r := NewRouter(RouterDeps{
		Logger:         *zerolog.Ctx(ctx),
		VideoService:   videoService,
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		MaxUploadBytes: cfg.Server.MaxUploadMB << 20,
	})

	srv := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Str("addr", srv.Addr).Msg("start http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
			cancel()
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
	return nil
}

func NewUploader(cfg *config.Config) (*media.MinIOUploader, error) {
	client, err := config.NewMinIOClient(cfg.MinIO)
	if err != nil {
		return nil, err
	}
	return media.NewMinIOUploader(client, cfg.MinIO.Bucket, cfg.MinIO.PublicURL, media.FFProbe{Path: cfg.FFProbePath}), nil
}

func startCleanupConsumer(ctx context.Context, conn *amqp.Connection, cfg *config.Config, topology rabbitmq.Topology, deps handler.ServiceDependencies) {
	consumer := rabbitmq.NewConsumer(conn, cfg.Queue, topology, cfg.Server.Workers, handler.AssetCleanupHandler)
	go func() {
		err := consumer.Consume(ctx, deps)
		if err != nil && !errors.Is(err, context.Canceled) {
			zerolog.Ctx(ctx).Error().Err(err).Msg("asset cleanup consumer error")
		}
	}()
}

func SetupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
