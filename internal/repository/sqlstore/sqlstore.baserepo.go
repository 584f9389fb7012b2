package sqlstore

import (
	"context"

	"github.com/roadvision/store/internal/database"
	"github.com/roadvision/store/internal/errors"
)

type SQLBaseRepo struct {
	db database.DB
}

func (r *SQLBaseRepo) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *SQLBaseRepo) driverName() string {
	return r.db.GetDB().DriverName()
}
