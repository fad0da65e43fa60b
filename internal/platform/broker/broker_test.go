// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package broker_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sunday/internal/platform/broker"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

/*
TestPublish_Success sends a persistent JSON message to the queue.
*/
func TestPublish_Success(t *testing.T) {
	var captured amqp.Publishing
	var routingKey string

	publisher := broker.NewTestPublisher(func(_ context.Context, exchange, key string, msg amqp.Publishing) error {
		assert.Empty(t, exchange)
		routingKey = key
		captured = msg
		return nil
	}, "search.documents", broker.RetryPolicy{MaxRetries: 3, Interval: time.Millisecond}, quiet)

	require.NoError(t, publisher.Publish(context.Background(), map[string]string{"id": "z-1"}))

	assert.Equal(t, "search.documents", routingKey)
	assert.Equal(t, "application/json", captured.ContentType)
	assert.Equal(t, amqp.Persistent, captured.DeliveryMode)

	var body map[string]string
	require.NoError(t, json.Unmarshal(captured.Body, &body))
	assert.Equal(t, "z-1", body["id"])
}

/*
TestPublish_RetriesThenSucceeds recovers from transient failures.
*/
func TestPublish_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	publisher := broker.NewTestPublisher(func(context.Context, string, string, amqp.Publishing) error {
		calls++
		if calls < 3 {
			return errors.New("channel closed")
		}
		return nil
	}, "q", broker.RetryPolicy{MaxRetries: 3, Interval: time.Millisecond}, quiet)

	require.NoError(t, publisher.Publish(context.Background(), "doc"))
	assert.Equal(t, 3, calls)
}

/*
TestPublish_GivesUp stops after the retry budget.
*/
func TestPublish_GivesUp(t *testing.T) {
	calls := 0
	publisher := broker.NewTestPublisher(func(context.Context, string, string, amqp.Publishing) error {
		calls++
		return errors.New("channel closed")
	}, "q", broker.RetryPolicy{MaxRetries: 2, Interval: time.Millisecond}, quiet)

	err := publisher.Publish(context.Background(), "doc")
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

/*
TestDisabled always reports publishing as off.
*/
func TestDisabled(t *testing.T) {
	var publisher broker.Publisher = broker.Disabled{}
	assert.ErrorIs(t, publisher.Publish(context.Background(), "doc"), broker.ErrDisabled)
	assert.NoError(t, publisher.Close())
}

func TestPing_WithoutConnection(t *testing.T) {
	publisher := broker.NewTestPublisher(func(context.Context, string, string, amqp.Publishing) error {
		return nil
	}, "search.documents", broker.RetryPolicy{}, quiet)

	assert.ErrorIs(t, publisher.Ping(), broker.ErrClosed)
}
