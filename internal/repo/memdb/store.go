// Package memdb is an in-process store with the same locking discipline as the postgres
// repositories: the gig is the lock granule and hire writes become visible only on commit.
package memdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"

	"github.com/pkg/errors"
)

type Store struct {
	mu        sync.RWMutex
	gigs      map[int64]entity.Gig
	bids      map[int64]entity.Bid
	nextGigId int64
	nextBidId int64

	locksMu  sync.Mutex
	gigLocks map[int64]chan struct{}

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		gigs:     make(map[int64]entity.Gig),
		bids:     make(map[int64]entity.Bid),
		gigLocks: make(map[int64]chan struct{}),
		now:      time.Now,
	}
}

func (s *Store) gigLock(gigId int64) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.gigLocks[gigId]
	if !ok {
		l = make(chan struct{}, 1)
		s.gigLocks[gigId] = l
	}

	return l
}

// lockGig blocks until the gig lock is held, the context is done or timeout elapses.
// A zero timeout waits for as long as the context allows.
func (s *Store) lockGig(ctx context.Context, gigId int64, timeout time.Duration) (func(), error) {
	l := s.gigLock(gigId)

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case l <- struct{}{}:
		return func() { <-l }, nil
	case <-ctx.Done():
		return nil, errors.Wrapf(ctx.Err(), "waiting for gig %d lock", gigId)
	case <-expired:
		return nil, errors.Wrapf(repo_errors.ErrLockTimeout, "gig %d", gigId)
	}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *Store) bidsOfGig(gigId int64) []entity.Bid {
	bids := make([]entity.Bid, 0)
	for _, b := range s.bids {
		if b.GigId == gigId {
			bids = append(bids, b)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].Id < bids[j].Id })

	return bids
}
