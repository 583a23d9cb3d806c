package queue

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrConsumerClosed = errors.New("rabbitmq consumer closed")

type DriverRabbitMQConfig struct {
	Host string
	Port int
	User string
	Pass string
}

func NewDriverRabbitMQ(config DriverRabbitMQConfig) (Driver, error) {
	connection, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:%d/", config.User, config.Pass, config.Host, config.Port))
	if err != nil {
		return nil, err
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, err
	}

	return &driverRabbitMQ{
		channel: channel,
	}, nil
}

type driverRabbitMQ struct {
	channel *amqp.Channel
}

func (driver *driverRabbitMQ) CreateQueue(ctx context.Context, queueName string) error {
	_, err := driver.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)

	return err
}

func (driver *driverRabbitMQ) Publish(ctx context.Context, queueName string, payload []byte) error {
	return driver.channel.PublishWithContext(
		ctx,
		"",        // default exchange
		queueName, // routing key
		true,      // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	)
}

// Consume acknowledges a delivery only after handler succeeds; a failed
// delivery is requeued and consumption stops.
func (driver *driverRabbitMQ) Consume(
	ctx context.Context,
	queueName string,
	handler func(ctx context.Context, payload []byte) error,
) error {
	deliveries, err := driver.channel.ConsumeWithContext(
		ctx,
		queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return ErrConsumerClosed
			}

			if err := handler(ctx, delivery.Body); err != nil {
				_ = delivery.Nack(false, true)
				return err
			}

			if err := delivery.Ack(false); err != nil {
				return err
			}
		}
	}
}
