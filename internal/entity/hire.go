package entity

import "github.com/google/uuid"

// BidWithGig is the snapshot the hire transition checks, read under the gig row lock.
type BidWithGig struct {
	BidId      int64
	BidStatus  string
	GigId      int64
	GigStatus  string
	GigOwnerId uuid.UUID
}

type HireResult struct {
	GigId        int64 `json:"gigId"`
	BidId        int64 `json:"bidId"`
	RejectedBids int64 `json:"rejectedBids"`
}
