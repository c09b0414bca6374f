package entity

import (
	"github.com/google/uuid"
)

type Bid struct {
	Id           int64     `json:"id" db:"id"`
	GigId        int64     `json:"gigId" db:"gig_id"`
	FreelancerId uuid.UUID `json:"freelancerId" db:"freelancer_id"`
	Message      string    `json:"message" db:"message"`
	Price        float64   `json:"price" db:"price"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    string    `json:"createdAt" db:"created_at"`
	GigTitle     string    `json:"gigTitle" db:"-"`
	GigStatus    string    `json:"gigStatus" db:"-"`
}

// service + repo input model
type CreateBidInput struct {
	GigId        int64     // given
	FreelancerId uuid.UUID // given, resolved from the acting user
	Message      string    // given
	Price        float64   // given
	// Status is always "pending" on creation
}

// controller model
type BidOutputModel struct {
	Id           int64   `json:"id"`
	GigId        int64   `json:"gigId"`
	FreelancerId string  `json:"freelancerId"`
	Message      string  `json:"message"`
	Price        float64 `json:"price"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	GigTitle     string  `json:"gigTitle,omitempty"`
	GigStatus    string  `json:"gigStatus,omitempty"`
}
