package repo

import (
	"context"
	"time"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/memdb"
	"gig-marketplace-api/internal/repo/pgdb"
	"gig-marketplace-api/internal/repo/txn"
	"gig-marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Gig interface {
	CreateGig(ctx context.Context, input *entity.CreateGigInput) (int64, error)
	GetGigById(ctx context.Context, id int64) (*entity.Gig, error)
	GetOpenGigs(ctx context.Context) ([]entity.Gig, error)
	GetGigsByOwnerId(ctx context.Context, ownerId uuid.UUID) ([]entity.Gig, error)
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (int64, error)
	GetBidById(ctx context.Context, id int64) (*entity.Bid, error)
	GetGigBids(ctx context.Context, gigId int64) ([]entity.Bid, error)
	GetFreelancerBids(ctx context.Context, freelancerId uuid.UUID) ([]entity.Bid, error)
	HasFreelancerBid(ctx context.Context, gigId int64, freelancerId uuid.UUID) (bool, error)
}

// Hire runs fn in a single transaction: committed if fn returns nil, rolled back otherwise.
type Hire interface {
	RunInTx(ctx context.Context, fn func(tx txn.HireTx) error) error
}

type Repositories struct {
	Diagnostics
	Gig
	Bid
	Hire
}

func NewRepositories(p *postgres.Postgres, lockTimeout time.Duration) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		Gig:         pgdb.NewGigRepo(p),
		Bid:         pgdb.NewBidRepo(p),
		Hire:        pgdb.NewHireRepo(p, lockTimeout),
	}
}

func NewMemoryRepositories(s *memdb.Store, lockTimeout time.Duration) *Repositories {
	return &Repositories{
		Diagnostics: memdb.NewDiagnosticsRepo(s),
		Gig:         memdb.NewGigRepo(s),
		Bid:         memdb.NewBidRepo(s),
		Hire:        memdb.NewHireRepo(s, lockTimeout),
	}
}
