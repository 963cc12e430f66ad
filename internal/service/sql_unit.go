package service

import (
	"context"

	"github.com/iliyamo/table-reservation/internal/repository"
)

// SQLUnitOfWork runs units of work in a MySQL transaction.
type SQLUnitOfWork struct {
	Repo *repository.ReservationRepo
}

func (u SQLUnitOfWork) Do(ctx context.Context, fn func(context.Context, Ledger) error) error {
	return u.Repo.WithTx(ctx, func(tx *repository.ReservationTx) error {
		return fn(ctx, tx)
	})
}
