package pgdb

import (
	"context"
	"time"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const gigColumns = "gig.id, gig.title, gig.description, gig.budget, gig.owner_id, gig.status, gig.created_at"

type GigRepo struct {
	*postgres.Postgres
}

func NewGigRepo(pgdb *postgres.Postgres) *GigRepo {
	return &GigRepo{pgdb}
}

func (r *GigRepo) CreateGig(ctx context.Context, input *entity.CreateGigInput) (int64, error) {
	createGigSql, args, _ := r.SqlBuilder.
		Insert("gig").
		Columns("title", "description", "budget", "owner_id", "status").
		Values(input.Title, input.Description, input.Budget, input.OwnerId, common.GigOpen).
		Suffix("RETURNING id").
		ToSql()

	var gigId int64
	if err := r.Database.QueryRowContext(ctx, createGigSql, args...).Scan(&gigId); err != nil {
		return 0, mapError(err)
	}

	return gigId, nil
}

func (r *GigRepo) GetGigById(ctx context.Context, id int64) (*entity.Gig, error) {
	getGigSql, args, _ := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where(squirrel.Eq{"gig.id": id}).
		ToSql()

	gig, err := scanGig(r.Database.QueryRowContext(ctx, getGigSql, args...))
	if err != nil {
		return nil, mapError(err)
	}

	return gig, nil
}

func (r *GigRepo) GetOpenGigs(ctx context.Context) ([]entity.Gig, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(gigColumns).
		From("gig").
		Where(squirrel.Eq{"gig.status": common.GigOpen}).
		OrderBy("gig.created_at DESC", "gig.id DESC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	gigs := make([]entity.Gig, 0)
	for rows.Next() {
		gig, err := scanGig(rows)
		if err != nil {
			return gigs, err
		}
		gigs = append(gigs, *gig)
	}
	if err = rows.Err(); err != nil {
		return gigs, err
	}

	return gigs, nil
}

func (r *GigRepo) GetGigsByOwnerId(ctx context.Context, ownerId uuid.UUID) ([]entity.Gig, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(gigColumns, "(select count(*) from bid where bid.gig_id = gig.id) as bid_count").
		From("gig").
		Where(squirrel.Eq{"gig.owner_id": ownerId}).
		OrderBy("gig.created_at DESC", "gig.id DESC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	gigs := make([]entity.Gig, 0)
	for rows.Next() {
		var gig entity.Gig
		var createdAt time.Time
		if err := rows.Scan(&gig.Id, &gig.Title, &gig.Description, &gig.Budget, &gig.OwnerId,
			&gig.Status, &createdAt, &gig.BidCount); err != nil {
			return gigs, err
		}
		gig.CreatedAt = createdAt.Format(time.RFC3339)
		gigs = append(gigs, gig)
	}
	if err = rows.Err(); err != nil {
		return gigs, err
	}

	return gigs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGig(row rowScanner) (*entity.Gig, error) {
	var gig entity.Gig
	var createdAt time.Time
	if err := row.Scan(&gig.Id, &gig.Title, &gig.Description, &gig.Budget, &gig.OwnerId,
		&gig.Status, &createdAt); err != nil {
		return nil, err
	}
	gig.CreatedAt = createdAt.Format(time.RFC3339)

	return &gig, nil
}
