package memdb

import (
	"context"
	"sort"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type BidRepo struct {
	*Store
}

func NewBidRepo(s *Store) *BidRepo {
	return &BidRepo{s}
}

func (r *BidRepo) CreateBid(ctx context.Context, input *entity.CreateBidInput) (int64, error) {
	unlock, err := r.lockGig(ctx, input.GigId, 0)
	if err != nil {
		return 0, err
	}
	defer unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	gig, ok := r.gigs[input.GigId]
	if !ok {
		return 0, repo_errors.ErrNotFound
	}
	if gig.Status != common.GigOpen {
		return 0, errors.Wrapf(repo_errors.ErrConflict, "gig %d is %s", gig.Id, gig.Status)
	}

	for _, b := range r.bids {
		if b.GigId == input.GigId && b.FreelancerId == input.FreelancerId {
			return 0, errors.Wrap(repo_errors.ErrDuplicate, "bid_gig_freelancer_key")
		}
	}

	r.nextBidId++
	bid := entity.Bid{
		Id:           r.nextBidId,
		GigId:        input.GigId,
		FreelancerId: input.FreelancerId,
		Message:      input.Message,
		Price:        input.Price,
		Status:       common.BidPending,
		CreatedAt:    r.timestamp(),
	}
	r.bids[bid.Id] = bid

	return bid.Id, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id int64) (*entity.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	bid, ok := r.bids[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &bid, nil
}

func (r *BidRepo) GetGigBids(ctx context.Context, gigId int64) ([]entity.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.bidsOfGig(gigId), nil
}

func (r *BidRepo) GetFreelancerBids(ctx context.Context, freelancerId uuid.UUID) ([]entity.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := make([]entity.Bid, 0)
	for _, b := range r.bids {
		if b.FreelancerId != freelancerId {
			continue
		}
		if gig, ok := r.gigs[b.GigId]; ok {
			b.GigTitle, b.GigStatus = gig.Title, gig.Status
		}
		bids = append(bids, b)
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].Id > bids[j].Id })

	return bids, nil
}

func (r *BidRepo) HasFreelancerBid(ctx context.Context, gigId int64, freelancerId uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bids {
		if b.GigId == gigId && b.FreelancerId == freelancerId {
			return true, nil
		}
	}

	return false, nil
}
