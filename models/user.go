package models

import (
	"time"
)

// Role IDs used by route guards.
const (
	RoleMember = 1
	RoleAdmin  = 2
)

type User struct {
	UserID       int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname    string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname    string     `gorm:"column:user_lname" json:"user_lname"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	Password     string     `gorm:"column:password" json:"-"`
	RoleID       int        `gorm:"column:role_id" json:"role_id"`
	MemberNumber *string    `gorm:"column:member_number" json:"member_number,omitempty"`
	JoinedOn     *time.Time `gorm:"column:joined_on" json:"joined_on,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// UserToken stores issued one-time tokens such as password resets.
type UserToken struct {
	TokenID   int        `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID    int        `gorm:"column:user_id" json:"user_id"`
	Token     string     `gorm:"column:token" json:"-"`
	TokenType string     `gorm:"column:token_type" json:"token_type"`
	IsRevoked bool       `gorm:"column:is_revoked" json:"is_revoked"`
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.RoleID == RoleAdmin
}

// FullName returns the display name used in notification mail.
func (u *User) FullName() string {
	return u.UserFname + " " + u.UserLname
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (UserToken) TableName() string {
	return "user_tokens"
}
