package service

import (
	"context"
	"errors"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type BidService struct {
	bidRepo repo.Bid
	gigRepo repo.Gig
}

func NewBidService(repos *repo.Repositories) *BidService {
	return &BidService{
		bidRepo: repos.Bid,
		gigRepo: repos.Gig,
	}
}

func (s *BidService) CreateBid(ctx context.Context, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, input.GigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	if gig.Status != common.GigOpen {
		return nil, ErrGigNotAcceptingBids
	}

	if gig.OwnerId == input.FreelancerId {
		return nil, ErrCanNotBidOnOwnGig
	}

	exists, err := s.bidRepo.HasFreelancerBid(ctx, input.GigId, input.FreelancerId)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrBidAlreadySubmitted
	}

	// the gig may have been assigned or bid on since the checks above
	id, err := s.bidRepo.CreateBid(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrNotFound):
			return nil, ErrGigNotFound
		case errors.Is(err, repo_errors.ErrConflict):
			return nil, ErrGigNotAcceptingBids
		case errors.Is(err, repo_errors.ErrDuplicate):
			return nil, ErrBidAlreadySubmitted
		}

		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

// Bids of a gig are visible to its owner only
func (s *BidService) GetGigBids(ctx context.Context, gigId int64, actingUserId uuid.UUID) ([]entity.BidOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	if gig.OwnerId != actingUserId {
		return nil, ErrUserHasNoAccessToGig
	}

	bids, err := s.bidRepo.GetGigBids(ctx, gigId)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BidService) GetUserBids(ctx context.Context, freelancerId uuid.UUID) ([]entity.BidOutputModel, error) {
	bids, err := s.bidRepo.GetFreelancerBids(ctx, freelancerId)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}
