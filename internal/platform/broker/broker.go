// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package broker publishes search documents to RabbitMQ.

Messages are JSON, persistent, and routed through the default exchange to a
single durable queue. A publish is retried a bounded number of times with a
constant pause; the caller decides whether a final failure matters.
*/
package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends one message to the configured queue.
type Publisher interface {
	Publish(ctx context.Context, payload any) error
	Close() error
}

// channel is the subset of *amqp.Channel used for publishing.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RetryPolicy bounds publish attempts.
type RetryPolicy struct {
	MaxRetries uint64
	Interval   time.Duration
}

// AMQPPublisher publishes on one long-lived channel.
type AMQPPublisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    channel
	queue      string
	retry      RetryPolicy
	logger     *slog.Logger
}

/*
Dial connects to the broker and declares the queue.

Parameters:
  - url: AMQP connection string
  - queue: durable queue name, also used as the routing key

Returns:
  - *AMQPPublisher: ready to publish
  - error: connection, channel or declare failures
*/
func Dial(url, queue string, retry RetryPolicy, logger *slog.Logger) (*AMQPPublisher, error) {
	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("broker: dial failed: %w", err)
	}

	amqpChannel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("broker: channel open failed: %w", err)
	}

	// Durable so queued documents survive a broker restart
	if _, err := amqpChannel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = amqpChannel.Close()
		_ = connection.Close()
		return nil, fmt.Errorf("broker: queue declare failed: %w", err)
	}

	publisher := newPublisher(amqpChannel, queue, retry, logger)
	publisher.connection = connection
	return publisher, nil
}

func newPublisher(ch channel, queue string, retry RetryPolicy, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{channel: ch, queue: queue, retry: retry, logger: logger}
}

// Publish marshals payload and sends it, retrying transient failures.
func (publisher *AMQPPublisher) Publish(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("broker: marshal failed: %w", err)
	}

	message := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	attempt := 0
	operation := func() error {
		attempt++
		publisher.mu.Lock()
		defer publisher.mu.Unlock()

		err := publisher.channel.PublishWithContext(ctx, "", publisher.queue, false, false, message)
		if err != nil {
			publisher.logger.DebugContext(ctx, "broker_publish_attempt_failed",
				slog.Int("attempt", attempt),
				slog.Any("error", err),
			)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(publisher.retry.Interval), publisher.retry.MaxRetries),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("broker: publish to %s failed after %d attempts: %w", publisher.queue, attempt, err)
	}
	return nil
}

// ErrClosed is returned by [AMQPPublisher.Ping] once the connection dropped.
var ErrClosed = errors.New("broker: connection closed")

// Ping reports whether the underlying connection is still open.
func (publisher *AMQPPublisher) Ping() error {
	if publisher.connection == nil || publisher.connection.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close releases the channel and connection.
func (publisher *AMQPPublisher) Close() error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()

	channelErr := publisher.channel.Close()
	if publisher.connection != nil {
		if err := publisher.connection.Close(); err != nil {
			return err
		}
	}
	return channelErr
}

// Disabled is used when no broker URL is configured.
type Disabled struct{}

// ErrDisabled is returned by [Disabled.Publish].
var ErrDisabled = errors.New("broker: publishing disabled")

func (Disabled) Publish(context.Context, any) error { return ErrDisabled }
func (Disabled) Close() error                       { return nil }
