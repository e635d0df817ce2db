package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/catalog-api/internal/config"
	"github.com/iliyamo/catalog-api/internal/contracts"
	"github.com/iliyamo/catalog-api/internal/model"
	"github.com/iliyamo/catalog-api/internal/repository"
	"github.com/iliyamo/catalog-api/internal/utils"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot probe for registered accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveUser is returned for accounts an admin has disabled.
	ErrInactiveUser = errors.New("user is inactive, talk with an admin")
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=50,password"`
	FullName string `json:"full_name" validate:"required,min=1"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is a user together with a freshly issued access token.
type Session struct {
	User   *model.User
	Access utils.AccessToken
}

// AuthService registers users and issues access tokens.
type AuthService struct {
	users  contracts.UserStore
	secret string
	ttlMin int
	cost   int
	log    contracts.Logger
}

func NewAuthService(cfg config.Config, users contracts.UserStore, log contracts.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: cfg.JWTSecret,
		ttlMin: cfg.AccessTTLMin,
		cost:   cfg.BcryptCost,
		log:    log,
	}
}

// Register creates an active user with the default role and signs them in.
// A taken email surfaces as *repository.ValidationError.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	hash, err := utils.HashPassword(in.Password, s.cost)
	if err != nil {
		s.log.Errorf("auth: hash password: %v", err)
		return nil, err
	}
	u := &model.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		var pe *repository.PersistenceError
		if errors.As(err, &pe) {
			s.log.Errorf("auth: register %s: %v", model.NormalizeEmail(in.Email), err)
		}
		return nil, err
	}
	s.log.Infof("auth: registered user %s", u.ID)
	return s.issue(u)
}

// Login checks the credentials and returns a new session.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.log.Errorf("auth: load user for login: %v", err)
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return s.issue(u)
}

// CheckStatus re-issues a token for an already authenticated user.
func (s *AuthService) CheckStatus(u *model.User) (*Session, error) {
	return s.issue(u)
}

func (s *AuthService) issue(u *model.User) (*Session, error) {
	tok, err := utils.NewAccessToken(s.secret, u.ID, s.ttlMin)
	if err != nil {
		s.log.Errorf("auth: sign token: %v", err)
		return nil, err
	}
	return &Session{User: u, Access: tok}, nil
}
