package controller

import (
	"gig-marketplace-api/internal/identity"
	"gig-marketplace-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

type Options struct {
	Identity *identity.Provider
	Gatherer prometheus.Gatherer

	// per client, on the hire route only
	HireRateLimit rate.Limit
	HireRateBurst int
}

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, opts Options) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	auth := authenticate(opts.Identity)
	limiter := newRateLimiter(opts.HireRateLimit, opts.HireRateBurst)

	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newGigRoutesHandler(api, services, validate, auth)
	newBidRoutesHandler(api, services, validate, auth, limiter.Limit)

	if opts.Gatherer != nil {
		api.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
}
