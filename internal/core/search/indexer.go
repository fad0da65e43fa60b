// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taibuivan/sunday/internal/platform/broker"
	"github.com/taibuivan/sunday/internal/platform/metrics"
)

// Indexer stores documents and forwards them to the broker.
type Indexer struct {
	repo      Repository
	publisher broker.Publisher
	publishes *prometheus.CounterVec
	logger    *slog.Logger
}

// NewIndexer wires the store, the broker and the publish counter.
func NewIndexer(repo Repository, publisher broker.Publisher, m *metrics.Metrics, logger *slog.Logger) *Indexer {
	return &Indexer{
		repo:      repo,
		publisher: publisher,
		publishes: m.SearchPublishes,
		logger:    logger,
	}
}

/*
Index upserts the document, then publishes it.

Description: Only the upsert can fail the call. A publish failure is logged
and counted; the row in searchable_* already serves local queries.

Parameters:
  - context: context.Context
  - document: Document

Returns:
  - error: INSERTION_FAILED when the searchable row could not be written
*/
func (indexer *Indexer) Index(context context.Context, document Document) error {
	if err := indexer.repo.Upsert(context, document); err != nil {
		return err
	}

	outcome := metrics.OutcomePublished
	if err := indexer.publisher.Publish(context, document); err != nil {
		if errors.Is(err, broker.ErrDisabled) {
			outcome = metrics.OutcomeDisabled
		} else {
			outcome = metrics.OutcomeFailed
			indexer.logger.Warn("search_publish_failed",
				slog.String("kind", string(document.Kind)),
				slog.String("id", document.ID),
				slog.Any("error", err),
			)
		}
	}

	indexer.publishes.WithLabelValues(string(document.Kind), outcome).Inc()
	return nil
}
