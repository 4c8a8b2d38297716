package models

import (
	"time"
)

// Role IDs form a closed set; every authorization decision in the system
// switches on these three values.
const (
	RoleLecturer    = 1
	RoleCoordinator = 2 // Program Coordinator
	RoleManager     = 3 // Academic Manager
)

// IsReviewer reports whether a role may approve/reject and view all claims.
func IsReviewer(roleID int) bool {
	return roleID == RoleCoordinator || roleID == RoleManager
}

// RoleName returns the display name for a role ID.
func RoleName(roleID int) string {
	switch roleID {
	case RoleLecturer:
		return "Lecturer"
	case RoleCoordinator:
		return "Program Coordinator"
	case RoleManager:
		return "Academic Manager"
	}
	return "Unknown"
}

type User struct {
	UserID   int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	FullName string     `gorm:"column:full_name" json:"full_name"`
	Email    string     `gorm:"column:email;unique" json:"email"`
	Password string     `gorm:"column:password" json:"-"`
	RoleID   int        `gorm:"column:role_id" json:"role_id"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}
