package memdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/internal/repo/txn"

	"github.com/google/uuid"
)

type fixture struct {
	store *Store
	gigs  *GigRepo
	bids  *BidRepo
	gigId int64
	bidA  int64
	bidB  int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	s := NewStore()
	f := &fixture{store: s, gigs: NewGigRepo(s), bids: NewBidRepo(s)}

	var err error
	f.gigId, err = f.gigs.CreateGig(ctx, &entity.CreateGigInput{
		Title: "Logo", Description: "Design a logo", Budget: 150, OwnerId: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create gig: %v", err)
	}

	f.bidA, err = f.bids.CreateBid(ctx, &entity.CreateBidInput{GigId: f.gigId, FreelancerId: uuid.New(), Message: "a", Price: 100})
	if err != nil {
		t.Fatalf("create bid A: %v", err)
	}
	f.bidB, err = f.bids.CreateBid(ctx, &entity.CreateBidInput{GigId: f.gigId, FreelancerId: uuid.New(), Message: "b", Price: 120})
	if err != nil {
		t.Fatalf("create bid B: %v", err)
	}

	return f
}

func (f *fixture) statuses(t *testing.T) (gig string, a string, b string) {
	t.Helper()
	ctx := context.Background()

	g, err := f.gigs.GetGigById(ctx, f.gigId)
	if err != nil {
		t.Fatalf("get gig: %v", err)
	}
	bidA, _ := f.bids.GetBidById(ctx, f.bidA)
	bidB, _ := f.bids.GetBidById(ctx, f.bidB)

	return g.Status, bidA.Status, bidB.Status
}

func hireAll(ctx context.Context, tx txn.HireTx, bidId, gigId int64) error {
	if err := tx.SetBidStatus(ctx, bidId, common.BidHired); err != nil {
		return err
	}
	if _, err := tx.RejectOtherPendingBids(ctx, gigId, bidId); err != nil {
		return err
	}

	return tx.SetGigStatus(ctx, gigId, common.GigAssigned)
}

func TestRunInTxCommit(t *testing.T) {
	f := newFixture(t)
	repo := NewHireRepo(f.store, time.Second)
	ctx := context.Background()

	var rejected int64
	err := repo.RunInTx(ctx, func(tx txn.HireTx) error {
		snapshot, err := tx.GetBidWithGigForUpdate(ctx, f.bidA)
		if err != nil {
			return err
		}
		if snapshot.GigId != f.gigId || snapshot.BidStatus != common.BidPending || snapshot.GigStatus != common.GigOpen {
			t.Errorf("unexpected snapshot %+v", snapshot)
		}
		if err := tx.SetBidStatus(ctx, f.bidA, common.BidHired); err != nil {
			return err
		}
		rejected, err = tx.RejectOtherPendingBids(ctx, f.gigId, f.bidA)
		if err != nil {
			return err
		}

		return tx.SetGigStatus(ctx, f.gigId, common.GigAssigned)
	})
	if err != nil {
		t.Fatalf("RunInTx: %v", err)
	}

	if rejected != 1 {
		t.Errorf("rejected = %d, want 1", rejected)
	}
	gig, a, b := f.statuses(t)
	if gig != common.GigAssigned || a != common.BidHired || b != common.BidRejected {
		t.Errorf("got gig=%s a=%s b=%s", gig, a, b)
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	f := newFixture(t)
	repo := NewHireRepo(f.store, time.Second)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.RunInTx(ctx, func(tx txn.HireTx) error {
		if err := hireAll(ctx, tx, f.bidA, f.gigId); err != nil {
			return err
		}

		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	gig, a, b := f.statuses(t)
	if gig != common.GigOpen || a != common.BidPending || b != common.BidPending {
		t.Errorf("state changed after rollback: gig=%s a=%s b=%s", gig, a, b)
	}
}

func TestRunInTxCancelledBeforeCommit(t *testing.T) {
	f := newFixture(t)
	repo := NewHireRepo(f.store, time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	err := repo.RunInTx(ctx, func(tx txn.HireTx) error {
		if err := hireAll(ctx, tx, f.bidA, f.gigId); err != nil {
			return err
		}
		cancel()

		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	gig, a, _ := f.statuses(t)
	if gig != common.GigOpen || a != common.BidPending {
		t.Errorf("cancelled transaction was applied: gig=%s a=%s", gig, a)
	}

	// locks were released
	err = repo.RunInTx(context.Background(), func(tx txn.HireTx) error {
		_, err := tx.GetBidWithGigForUpdate(context.Background(), f.bidB)
		return err
	})
	if err != nil {
		t.Fatalf("lock not released: %v", err)
	}
}

func TestGigLockTimeout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	holder := NewHireRepo(f.store, time.Second)
	waiter := NewHireRepo(f.store, 20*time.Millisecond)

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = holder.RunInTx(ctx, func(tx txn.HireTx) error {
			if _, err := tx.GetBidWithGigForUpdate(ctx, f.bidA); err != nil {
				return err
			}
			close(locked)
			<-done

			return nil
		})
	}()
	<-locked
	defer close(done)

	err := waiter.RunInTx(ctx, func(tx txn.HireTx) error {
		_, err := tx.GetBidWithGigForUpdate(ctx, f.bidB)
		return err
	})
	if !errors.Is(err, repo_errors.ErrLockTimeout) {
		t.Fatalf("err = %v, want ErrLockTimeout", err)
	}
}

func TestGigLocksAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherGig, err := f.gigs.CreateGig(ctx, &entity.CreateGigInput{Title: "Site", Description: "d", Budget: 10, OwnerId: uuid.New()})
	if err != nil {
		t.Fatal(err)
	}
	otherBid, err := f.bids.CreateBid(ctx, &entity.CreateBidInput{GigId: otherGig, FreelancerId: uuid.New(), Message: "m", Price: 5})
	if err != nil {
		t.Fatal(err)
	}

	repo := NewHireRepo(f.store, 20*time.Millisecond)
	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = repo.RunInTx(ctx, func(tx txn.HireTx) error {
			if _, err := tx.GetBidWithGigForUpdate(ctx, f.bidA); err != nil {
				return err
			}
			close(locked)
			<-done

			return nil
		})
	}()
	<-locked
	defer close(done)

	err = repo.RunInTx(ctx, func(tx txn.HireTx) error {
		return hireAll(ctx, tx, otherBid, otherGig)
	})
	if err != nil {
		t.Fatalf("hire on another gig blocked: %v", err)
	}
}

func TestGetBidWithGigForUpdateNotFound(t *testing.T) {
	f := newFixture(t)
	repo := NewHireRepo(f.store, time.Second)

	err := repo.RunInTx(context.Background(), func(tx txn.HireTx) error {
		_, err := tx.GetBidWithGigForUpdate(context.Background(), 9999)
		return err
	})
	if !errors.Is(err, repo_errors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateBidGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bid, _ := f.bids.GetBidById(ctx, f.bidA)
	_, err := f.bids.CreateBid(ctx, &entity.CreateBidInput{GigId: f.gigId, FreelancerId: bid.FreelancerId, Message: "again", Price: 90})
	if !errors.Is(err, repo_errors.ErrDuplicate) {
		t.Errorf("duplicate bid: err = %v, want ErrDuplicate", err)
	}

	_, err = f.bids.CreateBid(ctx, &entity.CreateBidInput{GigId: 4242, FreelancerId: uuid.New(), Message: "m", Price: 1})
	if !errors.Is(err, repo_errors.ErrNotFound) {
		t.Errorf("missing gig: err = %v, want ErrNotFound", err)
	}

	repo := NewHireRepo(f.store, time.Second)
	if err := repo.RunInTx(ctx, func(tx txn.HireTx) error { return hireAll(ctx, tx, f.bidA, f.gigId) }); err != nil {
		t.Fatal(err)
	}

	_, err = f.bids.CreateBid(ctx, &entity.CreateBidInput{GigId: f.gigId, FreelancerId: uuid.New(), Message: "late", Price: 80})
	if !errors.Is(err, repo_errors.ErrConflict) {
		t.Errorf("bid on assigned gig: err = %v, want ErrConflict", err)
	}
}

func TestGigListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	gig, _ := f.gigs.GetGigById(ctx, f.gigId)
	second, err := f.gigs.CreateGig(ctx, &entity.CreateGigInput{Title: "Second", Description: "d", Budget: 10, OwnerId: gig.OwnerId})
	if err != nil {
		t.Fatal(err)
	}

	owned, err := f.gigs.GetGigsByOwnerId(ctx, gig.OwnerId)
	if err != nil {
		t.Fatal(err)
	}
	if len(owned) != 2 || owned[0].Id != second || owned[1].BidCount != 2 {
		t.Errorf("unexpected owned gigs %+v", owned)
	}

	repo := NewHireRepo(f.store, time.Second)
	if err := repo.RunInTx(ctx, func(tx txn.HireTx) error { return hireAll(ctx, tx, f.bidB, f.gigId) }); err != nil {
		t.Fatal(err)
	}

	open, err := f.gigs.GetOpenGigs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 || open[0].Id != second {
		t.Errorf("unexpected open gigs %+v", open)
	}
}
