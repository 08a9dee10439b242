// Package media stores uploaded assets on an S3 compatible host.
package media

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
	"video-catalog/constant"
	"video-catalog/dto"
	"video-catalog/pkg/metrics"
)

type MinIOUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
	prober    Prober
}

// NewMinIOUploader returns an uploader writing to bucket. Object URLs are built
// from publicURL, or from the client endpoint when publicURL is empty.
func NewMinIOUploader(client *minio.Client, bucket, publicURL string, prober Prober) *MinIOUploader {
	if publicURL == "" && client != nil {
		publicURL = client.EndpointURL().String()
	}
	return &MinIOUploader{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
		prober:    prober,
	}
}

func (u *MinIOUploader) Upload(ctx context.Context, localPath string, kind constant.AssetKind) (result *dto.UploadResult, err error) {
	defer func() { metrics.ObserveUpload(kind.String(), err) }()

	ext := strings.ToLower(filepath.Ext(localPath))
	key := objectKey(kind, uuid.NewString(), ext)

	result = &dto.UploadResult{Key: key, Kind: kind}
	if kind == constant.AssetKindVideo {
		duration, err := u.prober.Duration(ctx, localPath)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("path", localPath).Msg("failed to probe video duration")
			return nil, err
		}
		result.Duration = &duration
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := u.client.FPutObject(ctx, u.bucket, key, localPath, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("key", key).Msg("failed to upload asset")
		return nil, err
	}

	result.URL = objectURL(u.publicURL, u.bucket, key)
	zerolog.Ctx(ctx).Info().Str("key", key).Int64("size", info.Size).Str("kind", kind.String()).Msg("asset uploaded")
	return result, nil
}

func (u *MinIOUploader) Remove(ctx context.Context, key string) error {
	err := u.client.RemoveObject(ctx, u.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	zerolog.Ctx(ctx).Info().Str("key", key).Msg("asset removed")
	return nil
}

func (u *MinIOUploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{})
}

func objectKey(kind constant.AssetKind, name, ext string) string {
	return fmt.Sprintf("%ss/%s%s", kind, name, ext)
}

func objectURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + key
}
