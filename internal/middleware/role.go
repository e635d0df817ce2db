package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole lets the request through when the user stored by JWTAuth holds
// at least one of roles.  With no roles it only requires authentication.
// It must be mounted after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user not found in request"})
			}
			if !u.HasAnyRole(roles...) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"error": fmt.Sprintf("user %s needs a valid role: [%s]", u.FullName, strings.Join(roles, ", ")),
				})
			}
			return next(c)
		}
	}
}
