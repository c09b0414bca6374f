package memdb

import (
	"context"
	"time"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/internal/repo/txn"

	"github.com/pkg/errors"
)

type HireRepo struct {
	*Store
	lockTimeout time.Duration
}

func NewHireRepo(s *Store, lockTimeout time.Duration) *HireRepo {
	return &HireRepo{Store: s, lockTimeout: lockTimeout}
}

func (r *HireRepo) RunInTx(ctx context.Context, fn func(tx txn.HireTx) error) error {
	tx := &hireTx{
		store:       r.Store,
		lockTimeout: r.lockTimeout,
		held:        make(map[int64]func()),
		bidStatus:   make(map[int64]string),
		gigStatus:   make(map[int64]string),
	}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "transaction aborted before commit")
	}

	tx.commit()

	return nil
}

// hireTx stages status changes and keeps every gig it touched locked until release.
type hireTx struct {
	store       *Store
	lockTimeout time.Duration
	held        map[int64]func()
	bidStatus   map[int64]string
	gigStatus   map[int64]string
}

func (t *hireTx) ensureLocked(ctx context.Context, gigId int64) error {
	if _, ok := t.held[gigId]; ok {
		return nil
	}

	unlock, err := t.store.lockGig(ctx, gigId, t.lockTimeout)
	if err != nil {
		return err
	}
	t.held[gigId] = unlock

	return nil
}

func (t *hireTx) lookupBid(bidId int64) (entity.Bid, bool) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	bid, ok := t.store.bids[bidId]
	if st, staged := t.bidStatus[bidId]; ok && staged {
		bid.Status = st
	}

	return bid, ok
}

func (t *hireTx) lookupGig(gigId int64) (entity.Gig, bool) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	gig, ok := t.store.gigs[gigId]
	if st, staged := t.gigStatus[gigId]; ok && staged {
		gig.Status = st
	}

	return gig, ok
}

func (t *hireTx) GetBidWithGigForUpdate(ctx context.Context, bidId int64) (*entity.BidWithGig, error) {
	bid, ok := t.lookupBid(bidId)
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	if err := t.ensureLocked(ctx, bid.GigId); err != nil {
		return nil, err
	}

	// re-read: the gig may have changed while we waited for the lock
	bid, _ = t.lookupBid(bidId)
	gig, ok := t.lookupGig(bid.GigId)
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &entity.BidWithGig{
		BidId:      bid.Id,
		BidStatus:  bid.Status,
		GigId:      gig.Id,
		GigStatus:  gig.Status,
		GigOwnerId: gig.OwnerId,
	}, nil
}

func (t *hireTx) SetBidStatus(ctx context.Context, bidId int64, status string) error {
	bid, ok := t.lookupBid(bidId)
	if !ok {
		return repo_errors.ErrNotFound
	}

	if err := t.ensureLocked(ctx, bid.GigId); err != nil {
		return err
	}
	t.bidStatus[bidId] = status

	return nil
}

func (t *hireTx) RejectOtherPendingBids(ctx context.Context, gigId int64, exceptBidId int64) (int64, error) {
	if err := t.ensureLocked(ctx, gigId); err != nil {
		return 0, err
	}

	t.store.mu.RLock()
	bids := t.store.bidsOfGig(gigId)
	t.store.mu.RUnlock()

	var rejected int64
	for _, b := range bids {
		status := b.Status
		if st, ok := t.bidStatus[b.Id]; ok {
			status = st
		}
		if b.Id == exceptBidId || status != common.BidPending {
			continue
		}
		t.bidStatus[b.Id] = common.BidRejected
		rejected++
	}

	return rejected, nil
}

func (t *hireTx) SetGigStatus(ctx context.Context, gigId int64, status string) error {
	if _, ok := t.lookupGig(gigId); !ok {
		return repo_errors.ErrNotFound
	}

	if err := t.ensureLocked(ctx, gigId); err != nil {
		return err
	}
	t.gigStatus[gigId] = status

	return nil
}

func (t *hireTx) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for id, st := range t.bidStatus {
		bid := t.store.bids[id]
		bid.Status = st
		t.store.bids[id] = bid
	}
	for id, st := range t.gigStatus {
		gig := t.store.gigs[id]
		gig.Status = st
		t.store.gigs[id] = gig
	}
}

func (t *hireTx) release() {
	for gigId, unlock := range t.held {
		unlock()
		delete(t.held, gigId)
	}
}
