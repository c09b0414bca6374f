package service

import (
	"context"
	"time"

	"gig-marketplace-api/internal/common"
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/metrics"
	"gig-marketplace-api/internal/repo"
	"gig-marketplace-api/internal/repo/repo_errors"
	"gig-marketplace-api/internal/repo/txn"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
)

type HireService struct {
	hireRepo repo.Hire
	logger   *log.Logger
	metrics  *metrics.Hire
}

func NewHireService(repos *repo.Repositories, logger *log.Logger, hireMetrics *metrics.Hire) *HireService {
	if logger == nil {
		logger = log.New("hire")
	}

	return &HireService{
		hireRepo: repos.Hire,
		logger:   logger,
		metrics:  hireMetrics,
	}
}

// Hire accepts bidId on behalf of actingUserId: the bid becomes hired, every other pending
// bid of the gig is rejected and the gig is assigned, all in one transaction. The checks run
// against a snapshot read under the gig row lock, so of several racing calls on one gig
// exactly one succeeds and the rest observe the committed state.
func (s *HireService) Hire(ctx context.Context, bidId int64, actingUserId uuid.UUID) (*entity.HireResult, error) {
	start := time.Now()

	var result *entity.HireResult
	err := s.hireRepo.RunInTx(ctx, func(tx txn.HireTx) error {
		snapshot, err := tx.GetBidWithGigForUpdate(ctx, bidId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return ErrBidNotFound
			}

			return errors.Wrap(err, "lock gig of bid")
		}

		if err := checkHire(snapshot, actingUserId); err != nil {
			return err
		}

		if err := tx.SetBidStatus(ctx, snapshot.BidId, common.BidHired); err != nil {
			return errors.Wrap(err, "mark bid hired")
		}

		rejected, err := tx.RejectOtherPendingBids(ctx, snapshot.GigId, snapshot.BidId)
		if err != nil {
			return errors.Wrap(err, "reject other bids")
		}

		if err := tx.SetGigStatus(ctx, snapshot.GigId, common.GigAssigned); err != nil {
			return errors.Wrap(err, "assign gig")
		}

		result = &entity.HireResult{
			GigId:        snapshot.GigId,
			BidId:        snapshot.BidId,
			RejectedBids: rejected,
		}

		return nil
	})

	kind := KindOf(err)
	s.metrics.Observe(outcomeOf(kind), time.Since(start))

	switch kind {
	case KindNone:
		s.logger.Infof("hire committed: bid=%d gig=%d user=%s rejected=%d", bidId, result.GigId, actingUserId, result.RejectedBids)
		return result, nil
	case KindInfrastructure:
		s.logger.Errorf("hire failed: bid=%d user=%s: %v", bidId, actingUserId, err)
		return nil, err
	default:
		s.logger.Warnf("hire refused: bid=%d user=%s: %v", bidId, actingUserId, err)
		return nil, err
	}
}

// checkHire applies the business rules in their fixed order; the first failing rule wins.
func checkHire(snapshot *entity.BidWithGig, actingUserId uuid.UUID) error {
	if snapshot.GigOwnerId != actingUserId {
		return ErrNotGigOwner
	}

	if snapshot.GigStatus != common.GigOpen {
		return ErrGigUnavailable
	}

	if snapshot.BidStatus != common.BidPending {
		return ErrBidAlreadyProcessed
	}

	return nil
}

func outcomeOf(kind ErrorKind) string {
	switch kind {
	case KindNone:
		return metrics.OutcomeHired
	case KindNotFound:
		return metrics.OutcomeNotFound
	case KindForbidden:
		return metrics.OutcomeForbidden
	case KindConflict:
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeInfrastructure
	}
}
