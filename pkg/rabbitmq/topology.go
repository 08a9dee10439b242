package rabbitmq

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"video-catalog/config"
)

// Topology names the exchange, queue and dead letter pair a consumer binds.
type Topology struct {
	Exchange      string
	Queue         string
	RoutingKey    string
	DLX           string
	DLQ           string
	DLQRoutingKey string
}

func AssetCleanupTopology(cfg *config.RabbitMQ) Topology {
	exchange := cfg.ExchangeName
	if exchange == "" {
		exchange = "asset_exchange"
	}
	return Topology{
		Exchange:      exchange,
		Queue:         "asset_cleanup_queue",
		RoutingKey:    "asset.cleanup",
		DLX:           exchange + "_dlx",
		DLQ:           "asset_cleanup_queue_dlq",
		DLQRoutingKey: "dlq.asset.cleanup",
	}
}

func declare(ch *amqp.Channel, kind string, t Topology, log *zerolog.Logger) error {
	if err := ch.ExchangeDeclare(t.Exchange, kind, true, false, false, false, nil); err != nil {
		log.Error().Str("exchange", t.Exchange).Msg("failed to declare exchange")
		return err
	}

	if err := ch.ExchangeDeclare(t.DLX, kind, true, false, false, false, nil); err != nil {
		log.Error().Str("exchange", t.DLX).Msg("failed to declare dlx")
		return err
	}

	dlq, err := ch.QueueDeclare(t.DLQ, true, false, false, false, nil)
	if err != nil {
		log.Error().Str("queue", t.DLQ).Msg("failed to declare dlq")
		return err
	}

	if err := ch.QueueBind(dlq.Name, t.DLQRoutingKey, t.DLX, false, nil); err != nil {
		log.Error().Str("queue", t.DLQ).Msg("failed to bind dlq")
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    t.DLX,
		"x-dead-letter-routing-key": t.DLQRoutingKey,
	}
	q, err := ch.QueueDeclare(t.Queue, true, false, false, false, args)
	if err != nil {
		log.Error().Str("queue", t.Queue).Msg("failed to declare queue")
		return err
	}

	if err := ch.QueueBind(q.Name, t.RoutingKey, t.Exchange, false, nil); err != nil {
		log.Error().Str("queue", t.Queue).Msg("failed to bind queue")
		return err
	}
	return nil
}
