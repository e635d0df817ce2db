package model

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role names stored in users.roles.
const (
	RoleAdmin     = "admin"
	RoleSuperUser = "super-user"
	RoleUser      = "user"
)

// User represents an application user record as stored in the `users`
// table.  PasswordHash is a bcrypt hash and is never serialized.  Roles is a
// JSON list of role names; a freshly registered user only has "user".
//
// Fields:
//
//	ID           – UUID primary key.
//	Email        – unique, lower-cased and trimmed on insert.
//	PasswordHash – bcrypt hash of the password.
//	FullName     – display name.
//	IsActive     – inactive users are rejected by the JWT middleware.
//	Roles        – role names (admin, super-user, user).
type User struct {
	ID           uuid.UUID                   `gorm:"type:char(36);primaryKey" json:"id"`
	Email        string                      `gorm:"size:191;not null;uniqueIndex" json:"email"`
	PasswordHash string                      `gorm:"size:191;not null" json:"-"`
	FullName     string                      `gorm:"size:191;not null" json:"full_name"`
	IsActive     bool                        `gorm:"not null;default:true" json:"is_active"`
	Roles        datatypes.JSONSlice[string] `json:"roles"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// BeforeCreate assigns the UUID, normalizes the email and applies the
// default role.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = NormalizeEmail(u.Email)
	if len(u.Roles) == 0 {
		u.Roles = datatypes.JSONSlice[string]{RoleUser}
	}
	return nil
}

// HasAnyRole reports whether the user holds at least one of roles.  An empty
// roles list matches every user.
func (u *User) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if slices.Contains(u.Roles, r) {
			return true
		}
	}
	return false
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
