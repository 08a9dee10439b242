package handler

import (
	"context"
	"encoding/json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"video-catalog/dto"
	"video-catalog/service"
)

type ServiceDependencies struct {
	Uploader service.Uploader
}

// AssetCleanupHandler removes an orphaned asset from the media host.
func AssetCleanupHandler(ctx context.Context, msg amqp.Delivery, deps ServiceDependencies) error {
	var cleanup dto.AssetCleanupMessage
	if err := json.Unmarshal(msg.Body, &cleanup); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal asset cleanup message")
		return err
	}
	if cleanup.Key == "" {
		zerolog.Ctx(ctx).Warn().Msg("asset cleanup message without key, dropping")
		return nil
	}

	zerolog.Ctx(ctx).Info().
		Str("key", cleanup.Key).
		Str("reason", cleanup.Reason).
		Msg("received asset cleanup message")

	return deps.Uploader.Remove(ctx, cleanup.Key)
}
