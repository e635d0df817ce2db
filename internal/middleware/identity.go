package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/catalog-api/internal/model"
)

// userKey is the echo context key JWTAuth stores the principal under.
const userKey = "user"

// CurrentUser returns the user loaded by JWTAuth, or nil on public routes.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(userKey).(*model.User)
	return u
}

// userID identifies the caller for rate-limit keys; "anon" when no user is
// authenticated.
func userID(c echo.Context) string {
	if u := CurrentUser(c); u != nil {
		return u.ID.String()
	}
	return "anon"
}
