// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset shared by a pool and a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a [Querier] that can also open transactions.
//
// *pgxpool.Pool and pgxmock.PgxPoolIface both satisfy it.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// InTx runs fn inside a transaction and commits when fn returns nil.
//
// The deferred rollback is a no-op once the transaction has been committed.
// classify is applied to begin and commit failures only; fn returns its own
// classified errors.
func InTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error, classify func(error) error) error {
	transaction, err := db.Begin(ctx)
	if err != nil {
		return classify(err)
	}
	defer transaction.Rollback(ctx)

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return classify(err)
	}
	return nil
}
