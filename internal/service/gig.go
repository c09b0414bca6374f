package service

import (
	"context"
	"errors"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type GigService struct {
	gigRepo repo.Gig
}

func NewGigService(repos *repo.Repositories) *GigService {
	return &GigService{gigRepo: repos.Gig}
}

func (s *GigService) CreateGig(ctx context.Context, input *entity.CreateGigInput) (*entity.GigOutputModel, error) {
	id, err := s.gigRepo.CreateGig(ctx, input)
	if err != nil {
		return nil, err
	}

	gig, err := s.gigRepo.GetGigById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapGig(gig), nil
}

func (s *GigService) GetGig(ctx context.Context, gigId int64) (*entity.GigOutputModel, error) {
	gig, err := s.gigRepo.GetGigById(ctx, gigId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrGigNotFound
		}

		return nil, err
	}

	return mapGig(gig), nil
}

func (s *GigService) ListOpenGigs(ctx context.Context) ([]entity.GigOutputModel, error) {
	gigs, err := s.gigRepo.GetOpenGigs(ctx)
	if err != nil {
		return nil, err
	}

	return mapGigs(gigs, false), nil
}

// ListUserGigs returns the gigs owned by ownerId along with how many bids each received.
func (s *GigService) ListUserGigs(ctx context.Context, ownerId uuid.UUID) ([]entity.GigOutputModel, error) {
	gigs, err := s.gigRepo.GetGigsByOwnerId(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	return mapGigs(gigs, true), nil
}
