package controller

import (
	"net/http"
	"strings"

	"gig-marketplace-api/internal/identity"

	"github.com/google/uuid"
	"github.com/labstack/echo"
)

const userIdKey = "userId"

// authenticate resolves the bearer token into the acting user id.
func authenticate(provider *identity.Provider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, errorResponse{"Missing token"})
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header {
				return c.JSON(http.StatusUnauthorized, errorResponse{"Invalid token format"})
			}

			userId, err := provider.ParseToken(tokenString)
			if err != nil {
				if e := c.JSON(http.StatusUnauthorized, errorResponse{"Invalid token"}); e != nil {
					return e
				}

				return err
			}

			c.Set(userIdKey, userId)

			return next(c)
		}
	}
}

// currentUserId returns the user id set by authenticate.
func currentUserId(c echo.Context) uuid.UUID {
	userId, _ := c.Get(userIdKey).(uuid.UUID)

	return userId
}
