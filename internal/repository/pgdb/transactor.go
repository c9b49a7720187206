package pgdb

import (
	"context"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"

	"github.com/DRSN-tech/medstore-backend/pkg/e"
	"github.com/DRSN-tech/medstore-backend/pkg/tr"
)

// Transactor исполняет функцию в рамках одной транзакции PostgreSQL.
// Объект pgx.Tx прокидывается репозиториям через контекст.
type Transactor struct {
	dbPool transaction.Transactional
}

func NewTransactor(dbPool transaction.Transactional) *Transactor {
	return &Transactor{dbPool: dbPool}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	const op = "Transactor.WithinTransaction"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, t.dbPool)
	if err != nil {
		return e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()

	ctx = tr.CtxWithTx(ctx, tx.Transaction().(pgx.Tx))

	if err = fn(ctx); err != nil {
		return e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}
