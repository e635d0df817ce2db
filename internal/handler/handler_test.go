package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/catalog-api/internal/repository"
	"github.com/iliyamo/catalog-api/internal/service"
)

func TestStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Abc123":  true,
		"Abcdef!": true,
		"abc123":  false,
		"ABC123":  false,
		"Abcdef":  false,
	}
	for pw, want := range cases {
		assert.Equal(t, want, strongPassword(pw), pw)
	}
}

func TestValidatorDecimalRules(t *testing.T) {
	v := NewValidator()

	ok := service.ProductInput{Title: "Shirt", Price: decimal.RequireFromString("0")}
	assert.NoError(t, v.Validate(&ok))

	neg := service.ProductInput{Title: "Shirt", Price: decimal.RequireFromString("-0.01")}
	assert.Error(t, v.Validate(&neg))

	bad := decimal.RequireFromString("-3")
	assert.Error(t, v.Validate(&service.ProductPatch{Price: &bad}))
	assert.NoError(t, v.Validate(&service.ProductPatch{}))

	empty := []string{}
	assert.NoError(t, v.Validate(&service.ProductPatch{Images: &empty}))
	blank := []string{""}
	assert.Error(t, v.Validate(&service.ProductPatch{Images: &blank}))
}

func TestWriteError(t *testing.T) {
	validationErr := NewValidator().Validate(&service.LoginInput{})
	require.Error(t, validationErr)

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("product %q: %w", "x", repository.ErrNotFound), http.StatusNotFound},
		{&repository.ValidationError{Field: "slug", Detail: "dup"}, http.StatusBadRequest},
		{validationErr, http.StatusBadRequest},
		{errBadBody, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrInactiveUser, http.StatusUnauthorized},
		{&repository.PersistenceError{Op: "save", Err: errors.New("conn reset")}, http.StatusInternalServerError},
	}
	e := echo.New()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, writeError(c, tc.err))
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
	}
}

func TestValidatorPasswordRuleIsRegistered(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&service.RegisterInput{Email: "a@b.io", Password: "abcdef", FullName: "A"})
	var fes validator.ValidationErrors
	require.ErrorAs(t, err, &fes)
	require.Len(t, fes, 1)
	assert.Equal(t, "password", fes[0].Tag())

	assert.NoError(t, v.Validate(&service.RegisterInput{Email: "a@b.io", Password: "Abcde1", FullName: "A"}))
}
