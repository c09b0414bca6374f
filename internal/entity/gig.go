package entity

import (
	"github.com/google/uuid"
)

// db model
type Gig struct {
	Id          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Budget      float64   `json:"budget" db:"budget"`
	OwnerId     uuid.UUID `json:"ownerId" db:"owner_id"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   string    `json:"createdAt" db:"created_at"`
	BidCount    int       `json:"bidCount" db:"-"`
}

// service + repo input model
type CreateGigInput struct {
	Title       string    // given
	Description string    // given
	Budget      float64   // given
	OwnerId     uuid.UUID // given, resolved from the acting user
	// Status is always "open" on creation
	// Id and CreatedAt set automatically
}

// controller model
type GigOutputModel struct {
	Id          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	OwnerId     string  `json:"ownerId"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	BidCount    *int    `json:"bidCount,omitempty"`
}
