package pgdb

import (
	"context"
	"database/sql"
	"time"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const bidColumns = "bid.id, bid.gig_id, bid.freelancer_id, bid.message, bid.price, bid.status, bid.created_at"

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

// CreateBid holds a share lock on the gig while inserting, so a bid can't slip in as pending
// after a concurrent hire has assigned the gig.
func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (int64, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return 0, mapError(err)
	}

	lockGigSql, args, _ := r.SqlBuilder.
		Select("status").
		From("gig").
		Where(squirrel.Eq{"id": input.GigId}).
		Suffix("FOR SHARE").
		ToSql()

	var gigStatus string
	if err = tx.QueryRowContext(ctx, lockGigSql, args...).Scan(&gigStatus); err != nil {
		return 0, rollback(tx, mapError(err))
	}

	if gigStatus != common.GigOpen {
		return 0, rollback(tx, errors.Wrapf(repo_errors.ErrConflict, "gig %d is %s", input.GigId, gigStatus))
	}

	createBidSql, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("gig_id", "freelancer_id", "message", "price", "status").
		Values(input.GigId, input.FreelancerId, input.Message, input.Price, common.BidPending).
		Suffix("RETURNING id").
		ToSql()

	var bidId int64
	if err = tx.QueryRowContext(ctx, createBidSql, args...).Scan(&bidId); err != nil {
		return 0, rollback(tx, mapError(err))
	}

	if err = tx.Commit(); err != nil {
		return 0, mapError(err)
	}

	return bidId, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id int64) (*entity.Bid, error) {
	getBidSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where(squirrel.Eq{"bid.id": id}).
		ToSql()

	var bid entity.Bid
	var createdAt time.Time
	err := r.Database.QueryRowContext(ctx, getBidSql, args...).Scan(&bid.Id, &bid.GigId, &bid.FreelancerId,
		&bid.Message, &bid.Price, &bid.Status, &createdAt)
	if err != nil {
		return nil, mapError(err)
	}
	bid.CreatedAt = createdAt.Format(time.RFC3339)

	return &bid, nil
}

func (r *BidRepo) GetGigBids(ctx context.Context, gigId int64) ([]entity.Bid, error) {
	getGigBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("bid").
		Where(squirrel.Eq{"bid.gig_id": gigId}).
		OrderBy("bid.created_at ASC", "bid.id ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getGigBidsSql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		var bid entity.Bid
		var createdAt time.Time
		if err := rows.Scan(&bid.Id, &bid.GigId, &bid.FreelancerId, &bid.Message, &bid.Price,
			&bid.Status, &createdAt); err != nil {
			return bids, err
		}
		bid.CreatedAt = createdAt.Format(time.RFC3339)
		bids = append(bids, bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}

func (r *BidRepo) GetFreelancerBids(ctx context.Context, freelancerId uuid.UUID) ([]entity.Bid, error) {
	getUserBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns, "gig.title", "gig.status").
		From("bid").
		InnerJoin("gig on gig.id = bid.gig_id").
		Where(squirrel.Eq{"bid.freelancer_id": freelancerId}).
		OrderBy("bid.created_at DESC", "bid.id DESC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getUserBidsSql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		var bid entity.Bid
		var createdAt time.Time
		if err := rows.Scan(&bid.Id, &bid.GigId, &bid.FreelancerId, &bid.Message, &bid.Price,
			&bid.Status, &createdAt, &bid.GigTitle, &bid.GigStatus); err != nil {
			return bids, err
		}
		bid.CreatedAt = createdAt.Format(time.RFC3339)
		bids = append(bids, bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}

func (r *BidRepo) HasFreelancerBid(ctx context.Context, gigId int64, freelancerId uuid.UUID) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("id").
		From("bid").
		Where(squirrel.Eq{"gig_id": gigId, "freelancer_id": freelancerId}).
		ToSql()

	var id int64
	err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
