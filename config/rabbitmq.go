package config

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// URL builds the AMQP address. Credentials are escaped so passwords with
// reserved characters survive.
func (r *RabbitMQ) URL() string {
	u := url.URL{
		Scheme: "amqp",
		Host:   net.JoinHostPort(r.Host, strconv.Itoa(r.Port)),
		Path:   "/",
	}
	if r.User != "" {
		u.User = url.UserPassword(r.User, r.Pass)
	}
	return u.String()
}

// NewRabbitMQConn dials the broker with exponential backoff. The connection
// is closed when ctx is done.
func NewRabbitMQConn(ctx context.Context, cfg *RabbitMQ) (*amqp.Connection, error) {
	log := zerolog.Ctx(ctx).With().Str("host", cfg.Host).Int("port", cfg.Port).Logger()

	dial := func() (*amqp.Connection, error) {
		conn, err := amqp.Dial(cfg.URL())
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to RabbitMQ, retrying")
			return nil, err
		}
		return conn, nil
	}

	tries := cfg.DialTries
	if tries < 1 {
		tries = 1
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = 10 * time.Second
	conn, err := backoff.Retry(ctx, dial, backoff.WithBackOff(bo), backoff.WithMaxTries(uint(tries)))
	if err != nil {
		log.Error().Err(err).Int("tries", tries).Msg("giving up on RabbitMQ")
		return nil, err
	}

	log.Info().Msg("connected to RabbitMQ")
	go func() {
		<-ctx.Done()
		if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			log.Error().Err(err).Msg("failed to close RabbitMQ connection")
			return
		}
		log.Info().Msg("RabbitMQ connection closed")
	}()

	return conn, nil
}
