package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/metrics"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/memdb"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/internal/repo/txn"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)

	return l
}

// marketplace is gig 1 owned by U1 with bid A from U2 (100) and bid B from U3 (120).
type marketplace struct {
	repos    *repo.Repositories
	services *Services
	u1       uuid.UUID
	u2       uuid.UUID
	u3       uuid.UUID
	gigId    int64
	bidA     int64
	bidB     int64
}

func newMarketplace(t *testing.T) *marketplace {
	t.Helper()
	ctx := context.Background()

	repos := repo.NewMemoryRepositories(memdb.NewStore(), time.Second)
	m := &marketplace{
		repos:    repos,
		services: NewServices(repos, quietLogger(), nil),
		u1:       uuid.New(),
		u2:       uuid.New(),
		u3:       uuid.New(),
	}

	gig, err := m.services.Gig.CreateGig(ctx, &entity.CreateGigInput{Title: "Logo", Description: "Design a logo", Budget: 200, OwnerId: m.u1})
	if err != nil {
		t.Fatalf("create gig: %v", err)
	}
	m.gigId = gig.Id

	a, err := m.services.Bid.CreateBid(ctx, &entity.CreateBidInput{GigId: gig.Id, FreelancerId: m.u2, Message: "A", Price: 100})
	if err != nil {
		t.Fatalf("create bid A: %v", err)
	}
	b, err := m.services.Bid.CreateBid(ctx, &entity.CreateBidInput{GigId: gig.Id, FreelancerId: m.u3, Message: "B", Price: 120})
	if err != nil {
		t.Fatalf("create bid B: %v", err)
	}
	m.bidA, m.bidB = a.Id, b.Id

	return m
}

func (m *marketplace) state(t *testing.T) (string, map[int64]string) {
	t.Helper()
	ctx := context.Background()

	gig, err := m.repos.Gig.GetGigById(ctx, m.gigId)
	if err != nil {
		t.Fatalf("get gig: %v", err)
	}
	bids, err := m.repos.Bid.GetGigBids(ctx, m.gigId)
	if err != nil {
		t.Fatalf("get bids: %v", err)
	}

	statuses := make(map[int64]string, len(bids))
	for _, b := range bids {
		statuses[b.Id] = b.Status
	}

	return gig.Status, statuses
}

func (m *marketplace) assertUntouched(t *testing.T) {
	t.Helper()

	gigStatus, bids := m.state(t)
	if gigStatus != common.GigOpen {
		t.Errorf("gig status = %s, want open", gigStatus)
	}
	for id, st := range bids {
		if st != common.BidPending {
			t.Errorf("bid %d status = %s, want pending", id, st)
		}
	}
}

// assertAssigned checks the post-hire invariants: gig assigned, exactly one hired bid,
// every other bid rejected.
func (m *marketplace) assertAssigned(t *testing.T, hired int64) {
	t.Helper()

	gigStatus, bids := m.state(t)
	if gigStatus != common.GigAssigned {
		t.Errorf("gig status = %s, want assigned", gigStatus)
	}

	hiredCount := 0
	for id, st := range bids {
		switch {
		case st == common.BidHired:
			hiredCount++
			if id != hired {
				t.Errorf("bid %d hired, want %d", id, hired)
			}
		case st != common.BidRejected:
			t.Errorf("bid %d status = %s, want rejected", id, st)
		}
	}
	if hiredCount != 1 {
		t.Errorf("%d hired bids, want 1", hiredCount)
	}
}

func TestHireThenHireSibling(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()

	res, err := m.services.Hire.Hire(ctx, m.bidA, m.u1)
	if err != nil {
		t.Fatalf("hire A: %v", err)
	}
	if res.GigId != m.gigId || res.BidId != m.bidA || res.RejectedBids != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	m.assertAssigned(t, m.bidA)

	_, err = m.services.Hire.Hire(ctx, m.bidB, m.u1)
	if !errors.Is(err, ErrGigUnavailable) {
		t.Fatalf("hire B: err = %v, want ErrGigUnavailable", err)
	}
	if KindOf(err) != KindConflict || Retryable(err) {
		t.Errorf("hire B: kind = %s retryable = %v", KindOf(err), Retryable(err))
	}
	m.assertAssigned(t, m.bidA)
}

func TestHireByNonOwnerIsForbidden(t *testing.T) {
	m := newMarketplace(t)

	_, err := m.services.Hire.Hire(context.Background(), m.bidA, m.u3)
	if !errors.Is(err, ErrNotGigOwner) {
		t.Fatalf("err = %v, want ErrNotGigOwner", err)
	}
	if KindOf(err) != KindForbidden {
		t.Errorf("kind = %s, want forbidden", KindOf(err))
	}
	m.assertUntouched(t)
}

func TestHireUnknownBid(t *testing.T) {
	m := newMarketplace(t)

	_, err := m.services.Hire.Hire(context.Background(), 9999, m.u1)
	if !errors.Is(err, ErrBidNotFound) {
		t.Fatalf("err = %v, want ErrBidNotFound", err)
	}
	if KindOf(err) != KindNotFound {
		t.Errorf("kind = %s, want not_found", KindOf(err))
	}
	m.assertUntouched(t)
}

func TestHireOnAssignedGigByNonOwnerIsForbidden(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()

	if _, err := m.services.Hire.Hire(ctx, m.bidA, m.u1); err != nil {
		t.Fatal(err)
	}

	_, err := m.services.Hire.Hire(ctx, m.bidB, m.u2)
	if !errors.Is(err, ErrNotGigOwner) {
		t.Fatalf("err = %v, want ErrNotGigOwner", err)
	}
}

func TestHireFailuresAreRepeatable(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()

	if _, err := m.services.Hire.Hire(ctx, m.bidA, m.u1); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		bidId int64
		user  uuid.UUID
		want  error
	}{
		{"sibling", m.bidB, m.u1, ErrGigUnavailable},
		{"already hired", m.bidA, m.u1, ErrGigUnavailable},
		{"non owner", m.bidB, m.u3, ErrNotGigOwner},
		{"unknown", 9999, m.u1, ErrBidNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				_, err := m.services.Hire.Hire(ctx, tc.bidId, tc.user)
				if !errors.Is(err, tc.want) {
					t.Fatalf("attempt %d: err = %v, want %v", i, err, tc.want)
				}
			}
			m.assertAssigned(t, m.bidA)
		})
	}
}

func TestConcurrentHiresOnOneGig(t *testing.T) {
	m := newMarketplace(t)
	ctx := context.Background()

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes []int64
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		bidId := m.bidA
		if i%2 == 1 {
			bidId = m.bidB
		}

		wg.Add(1)
		go func(bidId int64) {
			defer wg.Done()

			res, err := m.services.Hire.Hire(ctx, bidId, m.u1)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes = append(successes, res.BidId)
			case KindOf(err) == KindConflict:
				conflicts++
			default:
				t.Errorf("unexpected error %v", err)
			}
		}(bidId)
	}
	wg.Wait()

	if len(successes) != 1 {
		t.Fatalf("%d successful hires, want 1", len(successes))
	}
	if conflicts != attempts-1 {
		t.Errorf("%d conflicts, want %d", conflicts, attempts-1)
	}
	m.assertAssigned(t, successes[0])
}

func TestHireWithCancelledContext(t *testing.T) {
	m := newMarketplace(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.services.Hire.Hire(ctx, m.bidA, m.u1)
	if err == nil {
		t.Fatal("hire succeeded with a cancelled context")
	}
	if !Retryable(err) {
		t.Errorf("kind = %s, want infrastructure", KindOf(err))
	}
	m.assertUntouched(t)
}

type failingHireRepo struct {
	err error
}

func (r failingHireRepo) RunInTx(ctx context.Context, fn func(tx txn.HireTx) error) error {
	return r.err
}

func TestHireLockTimeoutIsRetryable(t *testing.T) {
	reg := prometheus.NewRegistry()
	repos := &repo.Repositories{Hire: failingHireRepo{errors.Wrap(repo_errors.ErrLockTimeout, "gig 1")}}
	s := NewHireService(repos, quietLogger(), metrics.NewHire(reg))

	_, err := s.Hire(context.Background(), 1, uuid.New())
	if !errors.Is(err, repo_errors.ErrLockTimeout) {
		t.Fatalf("err = %v, want ErrLockTimeout", err)
	}
	if KindOf(err) != KindInfrastructure || !Retryable(err) {
		t.Errorf("kind = %s retryable = %v", KindOf(err), Retryable(err))
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "hire_attempts_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if metric.GetLabel()[0].GetValue() == metrics.OutcomeInfrastructure && metric.GetCounter().GetValue() == 1 {
				found = true
			}
		}
	}
	if !found {
		t.Error("infrastructure outcome not recorded")
	}
}

func TestCheckHireOrder(t *testing.T) {
	owner, other := uuid.New(), uuid.New()

	cases := []struct {
		name     string
		snapshot entity.BidWithGig
		user     uuid.UUID
		want     error
	}{
		{"ok", entity.BidWithGig{GigOwnerId: owner, GigStatus: common.GigOpen, BidStatus: common.BidPending}, owner, nil},
		{"owner before gig status", entity.BidWithGig{GigOwnerId: owner, GigStatus: common.GigAssigned, BidStatus: common.BidRejected}, other, ErrNotGigOwner},
		{"gig status before bid status", entity.BidWithGig{GigOwnerId: owner, GigStatus: common.GigAssigned, BidStatus: common.BidRejected}, owner, ErrGigUnavailable},
		{"bid processed", entity.BidWithGig{GigOwnerId: owner, GigStatus: common.GigOpen, BidStatus: common.BidRejected}, owner, ErrBidAlreadyProcessed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := checkHire(&tc.snapshot, tc.user); err != tc.want {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{nil, KindNone},
		{ErrBidNotFound, KindNotFound},
		{ErrGigNotFound, KindNotFound},
		{ErrNotGigOwner, KindForbidden},
		{ErrUserHasNoAccessToGig, KindForbidden},
		{ErrCanNotBidOnOwnGig, KindInvalid},
		{ErrGigUnavailable, KindConflict},
		{errors.Wrap(ErrBidAlreadyProcessed, "bid 2"), KindConflict},
		{ErrBidAlreadySubmitted, KindConflict},
		{repo_errors.ErrLockTimeout, KindInfrastructure},
		{context.Canceled, KindInfrastructure},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}
