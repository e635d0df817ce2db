package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iliyamo/catalog-api/internal/contracts"
	"github.com/iliyamo/catalog-api/internal/model"
)

type UserRepo struct{ DB *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{DB: db} }

var _ contracts.UserStore = (*UserRepo)(nil)

// Create inserts u.  A taken email surfaces as *ValidationError.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	return Translate("create user", r.DB.WithContext(ctx).Create(u).Error)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.DB.WithContext(ctx).Where("email = ?", model.NormalizeEmail(email)).Take(&u).Error
	if err != nil {
		return nil, Translate("get user by email", err)
	}
	return &u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, Translate("get user by id", err)
	}
	return &u, nil
}
