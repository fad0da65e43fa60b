// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package broker

import (
	"context"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublishFunc adapts a function to the channel interface for tests.
type PublishFunc func(ctx context.Context, exchange, key string, msg amqp.Publishing) error

func (fn PublishFunc) PublishWithContext(ctx context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	return fn(ctx, exchange, key, msg)
}

func (PublishFunc) Close() error { return nil }

// NewTestPublisher builds a publisher over fn without a connection.
func NewTestPublisher(fn PublishFunc, queue string, retry RetryPolicy, logger *slog.Logger) *AMQPPublisher {
	return newPublisher(fn, queue, retry, logger)
}
