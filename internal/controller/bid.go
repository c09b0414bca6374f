package controller

import (
	"errors"
	"net/http"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

const retryAfterSeconds = "1"

type bidRoutesHandler struct {
	bidService  service.Bid
	hireService service.Hire
	validate    *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, auth echo.MiddlewareFunc, limit echo.MiddlewareFunc) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, hireService: services.Hire, validate: v}

	outer.POST("/bids/new", h.PostBid, auth)
	outer.GET("/bids/my", h.GetUserBids, auth)
	outer.GET("/bids/:gigId/list", h.GetGigBids, auth)
	outer.PATCH("/bids/:bidId/hire", h.HireBid, auth, limit)

	return h
}

type postBidInput struct {
	GigId   int64   `json:"gigId" validate:"required,gt=0"`
	Message string  `json:"message" validate:"required,max=1000"`
	Price   float64 `json:"price" validate:"required,gt=0"`
}

// /bids/new
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateBidInput{
		GigId: input.GigId, Message: input.Message, Price: input.Price,
		FreelancerId: currentUserId(c),
	}

	bid, err := h.bidService.CreateBid(c.Request().Context(), model)
	if err == nil {
		return c.JSON(http.StatusOK, bid)
	}

	switch err {
	case service.ErrGigNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"}); e != nil {
			return e
		}
	case service.ErrGigNotAcceptingBids:
		if e := c.JSON(http.StatusConflict, conflictResponse{"Gig isn't open, so you can't bid on it", true}); e != nil {
			return e
		}
	case service.ErrCanNotBidOnOwnGig:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"You cannot bid on your own gig"}); e != nil {
			return e
		}
	case service.ErrBidAlreadySubmitted:
		if e := c.JSON(http.StatusConflict, errorResponse{"You have already bid on this gig"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Failed to create bid"}); e != nil {
			return e
		}
	}

	return err
}

// /bids/my
func (h *bidRoutesHandler) GetUserBids(c echo.Context) error {
	bids, err := h.bidService.GetUserBids(c.Request().Context(), currentUserId(c))
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Failed to load bids"}); e != nil {
			return e
		}

		return err
	}

	return c.JSON(http.StatusOK, bids)
}

// /bids/:gigId/list
func (h *bidRoutesHandler) GetGigBids(c echo.Context) error {
	gigId, ok := parseId(c.Param("gigId"))
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{"'gigId': should be a positive integer"})
	}

	bids, err := h.bidService.GetGigBids(c.Request().Context(), gigId, currentUserId(c))
	if err == nil {
		return c.JSON(http.StatusOK, bids)
	}

	switch err {
	case service.ErrGigNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"}); e != nil {
			return e
		}
	case service.ErrUserHasNoAccessToGig:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the gig owner can see its bids"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Failed to load bids"}); e != nil {
			return e
		}
	}

	return err
}

type hireResponse struct {
	Success bool `json:"success"`
	*entity.HireResult
}

// /bids/:bidId/hire
func (h *bidRoutesHandler) HireBid(c echo.Context) error {
	bidId, ok := parseId(c.Param("bidId"))
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{"'bidId': should be a positive integer"})
	}

	result, err := h.hireService.Hire(c.Request().Context(), bidId, currentUserId(c))
	if err == nil {
		return c.JSON(http.StatusOK, hireResponse{true, result})
	}

	switch service.KindOf(err) {
	case service.KindNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"Bid not found"}); e != nil {
			return e
		}
	case service.KindForbidden:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Not authorized to hire for this gig"}); e != nil {
			return e
		}
	case service.KindConflict:
		reason := "This bid has already been processed"
		if errors.Is(err, service.ErrGigUnavailable) {
			reason = "This gig has already been assigned"
		}
		if e := c.JSON(http.StatusConflict, conflictResponse{reason, true}); e != nil {
			return e
		}
	default:
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
		if e := c.JSON(http.StatusServiceUnavailable, retryableResponse{"Failed to hire freelancer, try again", true}); e != nil {
			return e
		}
	}

	return err
}
