package txn

import (
	"context"

	"gig-marketplace-api/internal/entity"
)

// HireTx is the unit of work of the hire transition. All of its methods run inside one
// transaction; GetBidWithGigForUpdate takes the exclusive lock on the gig row.
type HireTx interface {
	GetBidWithGigForUpdate(ctx context.Context, bidId int64) (*entity.BidWithGig, error)
	SetBidStatus(ctx context.Context, bidId int64, status string) error
	RejectOtherPendingBids(ctx context.Context, gigId int64, exceptBidId int64) (int64, error)
	SetGigStatus(ctx context.Context, gigId int64, status string) error
}
