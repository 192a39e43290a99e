package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// WithTx executa uma função dentro de uma transação explicita.
// Qualquer erro devolvido por fn desfaz todas as instruções da transação.
func WithTx(ctx context.Context, conn Beginner, fn func(pctx context.Context, tx pgx.Tx) error) error {
	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
