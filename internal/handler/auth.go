package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/catalog-api/internal/middleware"
	"github.com/iliyamo/catalog-api/internal/model"
	"github.com/iliyamo/catalog-api/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(a *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	IsActive bool      `json:"is_active"`
	Roles    []string  `json:"roles"`
}
type authResp struct {
	User   userPart  `json:"user"`
	Access tokenPart `json:"access"`
}

func toUserPart(u *model.User) userPart {
	return userPart{ID: u.ID, Email: u.Email, FullName: u.FullName, IsActive: u.IsActive, Roles: u.Roles}
}

func toAuthResp(s *service.Session) authResp {
	return authResp{
		User:   toUserPart(s.User),
		Access: tokenPart{Token: s.Access.Token, Expires: s.Access.Exp},
	}
}

// Register: create user and return a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	s, err := h.Auth.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toAuthResp(s))
}

// Login: verify credentials and return a new token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := decode(c, &req); err != nil {
		return writeError(c, err)
	}
	s, err := h.Auth.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(s))
}

// CheckStatus re-issues a token for the authenticated user.
func (h *AuthHandler) CheckStatus(c echo.Context) error {
	s, err := h.Auth.CheckStatus(middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAuthResp(s))
}

// Private echoes the principal back; it sits behind a role guard.
func (h *AuthHandler) Private(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"ok":   true,
		"user": toUserPart(middleware.CurrentUser(c)),
	})
}
