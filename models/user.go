package models

import (
	"time"

	"gorm.io/gorm"
)

// Legacy display roles. The capability flags are authoritative; Role is
// derived from them on every save.
const (
	RoleAdmin     = "ADMIN"
	RoleModerator = "MODERATOR"
	RoleAnalyst   = "ANALYST"
	RoleUser      = "USER"
)

type User struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	Name        string     `json:"name" gorm:"not null"`
	Email       string     `json:"email" gorm:"uniqueIndex;not null"`
	Password    string     `json:"-" gorm:"not null"`
	Role        string     `json:"role" gorm:"size:32;default:'USER'"`
	IsAdmin     bool       `json:"is_admin"`
	IsModerator bool       `json:"is_moderator"`
	IsAnalyst   bool       `json:"is_analyst"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Role = DeriveRole(u.IsAdmin, u.IsModerator, u.IsAnalyst)
	return nil
}

// DeriveRole maps capability flags onto the single legacy role string,
// highest privilege first.
func DeriveRole(isAdmin, isModerator, isAnalyst bool) string {
	switch {
	case isAdmin:
		return RoleAdmin
	case isModerator:
		return RoleModerator
	case isAnalyst:
		return RoleAnalyst
	default:
		return RoleUser
	}
}
