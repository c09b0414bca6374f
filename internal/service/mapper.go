package service

import (
	"gig-marketplace-api/internal/entity"
)

func mapGig(g *entity.Gig) *entity.GigOutputModel {
	return &entity.GigOutputModel{
		Id:          g.Id,
		Title:       g.Title,
		Description: g.Description,
		Budget:      g.Budget,
		OwnerId:     g.OwnerId.String(),
		Status:      g.Status,
		CreatedAt:   g.CreatedAt,
	}
}

func mapGigs(g []entity.Gig, withBidCount bool) []entity.GigOutputModel {
	s := make([]entity.GigOutputModel, 0)
	for _, gig := range g {
		out := mapGig(&gig)
		if withBidCount {
			count := gig.BidCount
			out.BidCount = &count
		}
		s = append(s, *out)
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:           b.Id,
		GigId:        b.GigId,
		FreelancerId: b.FreelancerId.String(),
		Message:      b.Message,
		Price:        b.Price,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt,
		GigTitle:     b.GigTitle,
		GigStatus:    b.GigStatus,
	}
}

func mapBids(b []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, bid := range b {
		s = append(s, *mapBid(&bid))
	}

	return s
}
