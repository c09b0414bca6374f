package service

import (
	"context"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/metrics"
	"gig-marketplace-api/internal/repo"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Gig interface {
	CreateGig(ctx context.Context, input *entity.CreateGigInput) (*entity.GigOutputModel, error)
	GetGig(ctx context.Context, gigId int64) (*entity.GigOutputModel, error)

	ListOpenGigs(ctx context.Context) ([]entity.GigOutputModel, error)
	ListUserGigs(ctx context.Context, ownerId uuid.UUID) ([]entity.GigOutputModel, error)
}

type Bid interface {
	CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error)

	GetGigBids(ctx context.Context, gigId int64, actingUserId uuid.UUID) ([]entity.BidOutputModel, error)
	GetUserBids(ctx context.Context, freelancerId uuid.UUID) ([]entity.BidOutputModel, error)
}

type Hire interface {
	Hire(ctx context.Context, bidId int64, actingUserId uuid.UUID) (*entity.HireResult, error)
}

type Services struct {
	Diagnostics Diagnostics
	Gig         Gig
	Bid         Bid
	Hire        Hire
}

func NewServices(repos *repo.Repositories, logger *log.Logger, hireMetrics *metrics.Hire) *Services {
	return &Services{
		Gig:         NewGigService(repos),
		Bid:         NewBidService(repos),
		Hire:        NewHireService(repos, logger, hireMetrics),
		Diagnostics: NewDiagnosticsService(repos),
	}
}
