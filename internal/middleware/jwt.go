package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/catalog-api/internal/contracts"
	"github.com/iliyamo/catalog-api/internal/repository"
	"github.com/iliyamo/catalog-api/internal/utils"
)

// JWTAuth validates a Bearer access token, loads the user named by its
// subject and stores it in the context (see CurrentUser).  Unknown and
// inactive users are rejected with 401, so a disabled account loses access
// on its next request even with an unexpired token.
func JWTAuth(secret string, users contracts.UserStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			id, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			u, err := users.GetByID(c.Request().Context(), id)
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token not valid"})
			}
			if err != nil {
				c.Logger().Errorf("jwt: load user %s: %v", id, err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}
			if !u.IsActive {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user is inactive, talk with an admin"})
			}

			c.Set(userKey, u)
			return next(c)
		}
	}
}
