package memdb

import (
	"context"
	"sort"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

type GigRepo struct {
	*Store
}

func NewGigRepo(s *Store) *GigRepo {
	return &GigRepo{s}
}

func (r *GigRepo) CreateGig(ctx context.Context, input *entity.CreateGigInput) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextGigId++
	gig := entity.Gig{
		Id:          r.nextGigId,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		OwnerId:     input.OwnerId,
		Status:      common.GigOpen,
		CreatedAt:   r.timestamp(),
	}
	r.gigs[gig.Id] = gig

	return gig.Id, nil
}

func (r *GigRepo) GetGigById(ctx context.Context, id int64) (*entity.Gig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	gig, ok := r.gigs[id]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &gig, nil
}

func (r *GigRepo) GetOpenGigs(ctx context.Context) ([]entity.Gig, error) {
	return r.filterGigs(ctx, func(g entity.Gig) bool { return g.Status == common.GigOpen }, false)
}

func (r *GigRepo) GetGigsByOwnerId(ctx context.Context, ownerId uuid.UUID) ([]entity.Gig, error) {
	return r.filterGigs(ctx, func(g entity.Gig) bool { return g.OwnerId == ownerId }, true)
}

// filterGigs returns matching gigs newest first.
func (r *GigRepo) filterGigs(ctx context.Context, match func(entity.Gig) bool, withBidCount bool) ([]entity.Gig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	gigs := make([]entity.Gig, 0)
	for _, g := range r.gigs {
		if !match(g) {
			continue
		}
		if withBidCount {
			g.BidCount = len(r.bidsOfGig(g.Id))
		}
		gigs = append(gigs, g)
	}
	sort.Slice(gigs, func(i, j int) bool { return gigs[i].Id > gigs[j].Id })

	return gigs, nil
}
