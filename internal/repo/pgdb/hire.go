package pgdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/internal/repo/txn"
	"gig-marketplace-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
)

type HireRepo struct {
	*postgres.Postgres
	lockTimeout time.Duration
}

func NewHireRepo(pgdb *postgres.Postgres, lockTimeout time.Duration) *HireRepo {
	return &HireRepo{Postgres: pgdb, lockTimeout: lockTimeout}
}

func (r *HireRepo) RunInTx(ctx context.Context, fn func(tx txn.HireTx) error) error {
	tx, err := r.Database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return mapError(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if r.lockTimeout > 0 {
		// SET doesn't take bind parameters
		setTimeoutSql := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err = tx.ExecContext(ctx, setTimeoutSql); err != nil {
			return rollback(tx, mapError(err))
		}
	}

	if err = fn(&hireTx{tx: tx, builder: r.SqlBuilder}); err != nil {
		return rollback(tx, err)
	}

	if err = tx.Commit(); err != nil {
		return mapError(err)
	}

	return nil
}

type hireTx struct {
	tx      *sql.Tx
	builder squirrel.StatementBuilderType
}

func (t *hireTx) GetBidWithGigForUpdate(ctx context.Context, bidId int64) (*entity.BidWithGig, error) {
	sqlReq, args, _ := t.builder.
		Select("bid.id", "bid.status", "gig.id", "gig.status", "gig.owner_id").
		From("bid").
		InnerJoin("gig on gig.id = bid.gig_id").
		Where(squirrel.Eq{"bid.id": bidId}).
		Suffix("FOR UPDATE OF gig").
		ToSql()

	var s entity.BidWithGig
	err := t.tx.QueryRowContext(ctx, sqlReq, args...).
		Scan(&s.BidId, &s.BidStatus, &s.GigId, &s.GigStatus, &s.GigOwnerId)
	if err != nil {
		return nil, mapError(err)
	}

	return &s, nil
}

func (t *hireTx) SetBidStatus(ctx context.Context, bidId int64, status string) error {
	updateStatusSql, args, _ := t.builder.
		Update("bid").
		Set("status", status).
		Where(squirrel.Eq{"id": bidId}).
		ToSql()

	return t.execOne(ctx, updateStatusSql, args)
}

func (t *hireTx) RejectOtherPendingBids(ctx context.Context, gigId int64, exceptBidId int64) (int64, error) {
	rejectSql, args, _ := t.builder.
		Update("bid").
		Set("status", common.BidRejected).
		Where(squirrel.Eq{"gig_id": gigId, "status": common.BidPending}).
		Where(squirrel.NotEq{"id": exceptBidId}).
		ToSql()

	res, err := t.tx.ExecContext(ctx, rejectSql, args...)
	if err != nil {
		return 0, mapError(err)
	}

	return res.RowsAffected()
}

func (t *hireTx) SetGigStatus(ctx context.Context, gigId int64, status string) error {
	updateStatusSql, args, _ := t.builder.
		Update("gig").
		Set("status", status).
		Where(squirrel.Eq{"id": gigId}).
		ToSql()

	return t.execOne(ctx, updateStatusSql, args)
}

func (t *hireTx) execOne(ctx context.Context, query string, args []any) error {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}
