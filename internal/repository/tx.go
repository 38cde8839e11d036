package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgTxRunner implements TxRunner on a pgx pool.
type PgTxRunner struct {
	pool *pgxpool.Pool
}

// NewPgTxRunner creates a TxRunner backed by pool.
func NewPgTxRunner(pool *pgxpool.Pool) *PgTxRunner {
	return &PgTxRunner{pool: pool}
}

var _ TxRunner = (*PgTxRunner)(nil)

// InTx runs fn in a read-committed transaction. The connection goes back to the pool on every path.
func (r *PgTxRunner) InTx(ctx context.Context, fn func(tx DBTX) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(tx)
	})
}
