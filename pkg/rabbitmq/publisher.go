package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"video-catalog/config"
	"video-catalog/dto"
)

var ErrUnavailable = errors.New("rabbitmq connection unavailable")

type Publisher struct {
	conn     *amqp.Connection
	cfg      *config.RabbitMQ
	topology Topology
}

// NewPublisher accepts a nil connection; every publish then fails with ErrUnavailable.
func NewPublisher(conn *amqp.Connection, cfg *config.RabbitMQ, topology Topology) *Publisher {
	return &Publisher{
		conn:     conn,
		cfg:      cfg,
		topology: topology,
	}
}

func (p *Publisher) PublishCleanup(ctx context.Context, msg dto.AssetCleanupMessage) error {
	return p.publish(ctx, msg)
}

func (p *Publisher) publish(ctx context.Context, v any) error {
	if p.conn == nil || p.conn.IsClosed() {
		return ErrUnavailable
	}

	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := declare(ch, p.cfg.Kind, p.topology, zerolog.Ctx(ctx)); err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, p.topology.Exchange, p.topology.RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("exchange", p.topology.Exchange).Msg("failed to publish message")
		return err
	}
	return nil
}
