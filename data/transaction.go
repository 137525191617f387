package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type ContextKey string

const (
	ContextKeyTransaction ContextKey = "tx"
)

// ErrClosed is returned once the data layer has been closed.
var ErrClosed = errors.New("data layer is closed")

// GetTx retrieves transaction from context
func GetTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, ok := ctx.Value(ContextKeyTransaction).(*sqlx.Tx)
	if !ok {
		return nil, errors.New("transaction not found in context")
	}
	return tx, nil
}

// Executor returns the transaction bound to ctx, or the pool when there is none.
// Repositories run every statement through it so they join an open transaction.
func (d *Data) Executor(ctx context.Context) sqlx.ExtContext {
	if tx, err := GetTx(ctx); err == nil {
		return tx
	}
	return d.DB
}

// WithTx wraps function within transaction. Nested calls reuse the outer
// transaction.
func (d *Data) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, err := GetTx(ctx); err == nil {
		return fn(ctx)
	}
	if d.isClosed() {
		return ErrClosed
	}

	tx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(context.WithValue(ctx, ContextKeyTransaction, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx err: %w, rollback err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// ForUpdate appends the dialect's row lock clause to a SELECT.
func (d *Data) ForUpdate(query string) string {
	return query + d.Dialect.LockSuffix
}
