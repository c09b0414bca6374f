package controller

import (
	"net/http"

	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type gigRoutesHandler struct {
	gigService service.Gig
	validate   *validator.Validate
}

func newGigRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, auth echo.MiddlewareFunc) *gigRoutesHandler {
	h := &gigRoutesHandler{gigService: services.Gig, validate: v}

	outer.GET("/gigs", h.GetGigs)
	outer.POST("/gigs/new", h.PostGig, auth)
	outer.GET("/gigs/my", h.GetUserGigs, auth)
	outer.GET("/gigs/:gigId", h.GetGig)

	return h
}

// /gigs
func (h *gigRoutesHandler) GetGigs(c echo.Context) error {
	gigs, err := h.gigService.ListOpenGigs(c.Request().Context())
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Failed to load gigs"}); e != nil {
			return e
		}

		return err
	}

	return c.JSON(http.StatusOK, gigs)
}

type postGigInput struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description string  `json:"description" validate:"required,max=1000"`
	Budget      float64 `json:"budget" validate:"required,gt=0"`
}

// /gigs/new
func (h *gigRoutesHandler) PostGig(c echo.Context) error {
	var input postGigInput
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

	model := &entity.CreateGigInput{
		Title: input.Title, Description: input.Description, Budget: input.Budget,
		OwnerId: currentUserId(c),
	}

	gig, err := h.gigService.CreateGig(c.Request().Context(), model)
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Failed to create gig"}); e != nil {
			return e
		}

		return err
	}

	return c.JSON(http.StatusOK, gig)
}

// /gigs/my
func (h *gigRoutesHandler) GetUserGigs(c echo.Context) error {
	gigs, err := h.gigService.ListUserGigs(c.Request().Context(), currentUserId(c))
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Failed to load gigs"}); e != nil {
			return e
		}

		return err
	}

	return c.JSON(http.StatusOK, gigs)
}

// /gigs/:gigId
func (h *gigRoutesHandler) GetGig(c echo.Context) error {
	gigId, ok := parseId(c.Param("gigId"))
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{"'gigId': should be a positive integer"})
	}

	gig, err := h.gigService.GetGig(c.Request().Context(), gigId)
	if err == nil {
		return c.JSON(http.StatusOK, gig)
	}

	switch err {
	case service.ErrGigNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no gig with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Failed to load gig"}); e != nil {
			return e
		}
	}

	return err
}
