package rabbit

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wb-go/wbf/zlog"

	"expoDesk/internal/dto"
	"expoDesk/internal/model"
)

// Client publishes registration status events to a topic exchange and
// consumes gate-scanner messages from a queue bound to the same exchange.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
}

type Rabbiter interface {
	Close()
	Publish(ctx context.Context, routingKey string, message []byte) error
	Consume(handler func([]byte) error) error
}

func NewRabbit(url, exchange, queue, bindingKey string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to connect to RabbitMQ")
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		zlog.Logger.Error().Err(err).Msg("failed to open RabbitMQ channel")
		return nil, err
	}

	client := &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		queue:    queue,
	}

	if err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		client.Close()
		zlog.Logger.Error().Err(err).Msg("failed to declare exchange")
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		client.Close()
		zlog.Logger.Error().Err(err).Msg("failed to declare queue")
		return nil, err
	}

	if err := ch.QueueBind(
		queue,
		bindingKey,
		exchange,
		false,
		nil,
	); err != nil {
		client.Close()
		zlog.Logger.Error().Err(err).Msg("failed to bind queue")
		return nil, err
	}

	zlog.Logger.Info().Msgf("RabbitMQ initialized (exchange=%s, queue=%s, binding=%s)", exchange, queue, bindingKey)

	return client, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	zlog.Logger.Info().Msg("RabbitMQ connection closed")
}

func (c *Client) Publish(ctx context.Context, routingKey string, message []byte) error {
	err := c.channel.PublishWithContext(
		ctx,
		c.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         message,
			Timestamp:    time.Now(),
		},
	)

	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to publish message to RabbitMQ")
	} else {
		zlog.Logger.Debug().Msgf("Message published to exchange=%s key=%s", c.exchange, routingKey)
	}
	return err
}

// PublishStatus announces the current status of reg under
// "registration.<status>".
func (c *Client) PublishStatus(ctx context.Context, reg *model.Registration) error {
	return PublishStatus(ctx, c, reg)
}

func PublishStatus(ctx context.Context, r Rabbiter, reg *model.Registration) error {
	payload, err := json.Marshal(dto.RegistrationStatusMessage{
		RegistrationID: reg.ID,
		EventType:      reg.EventType,
		EntryCode:      reg.EntryCode,
		Status:         string(reg.Status),
		OccurredAt:     reg.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return r.Publish(ctx, StatusRoutingKey(reg.Status), payload)
}

func StatusRoutingKey(s model.Status) string {
	return "registration." + string(s)
}

func (c *Client) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to start consuming messages")
		return err
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				zlog.Logger.Warn().Msgf("failed to process message: %v", err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	zlog.Logger.Info().Msgf("Started consuming from queue %s", c.queue)
	return nil
}
