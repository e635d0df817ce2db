package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/catalog-api/internal/repository"
	"github.com/iliyamo/catalog-api/internal/service"
)

// writeError maps the error taxonomy to a status code and JSON body.
// Anything unclassified is logged and reported as a generic 500.
func writeError(c echo.Context, err error) error {
	var (
		ve  *repository.ValidationError
		fes validator.ValidationErrors
	)
	switch {
	case errors.Is(err, errBadBody):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.As(err, &ve):
		body := echo.Map{"error": ve.Error()}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		return c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &fes):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": fieldMessages(fes)})
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInactiveUser):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	default:
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func fieldMessages(fes validator.ValidationErrors) []string {
	out := make([]string, 0, len(fes))
	for _, fe := range fes {
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			out = append(out, fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			out = append(out, fmt.Sprintf("%s must satisfy %s", field, fe.Tag()))
		}
	}
	return out
}

var errBadBody = errors.New("invalid body")

// decode binds the JSON body into dst and runs the registered validator.
func decode(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return errBadBody
	}
	return c.Validate(dst)
}
