package user

import (
	"time"
)

const (
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
	RoleViewer = "Viewer"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// User is an authentication principal. Accounts are managed by Admins
// only and hard-deleted; there is no soft-delete for users.
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         string    `json:"role" gorm:"default:Viewer"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Repository defines the data access methods for user accounts.
type Repository interface {
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	List() ([]*User, error)
	Create(u *User) error
	Update(id int64, fields map[string]interface{}) (*User, error)
	Delete(id int64) error

	// CredentialStore surface consumed by the auth service.
	GetCredentials(email string) (userID int64, passwordHash, role string, err error)
	UpdatePassword(email, passwordHash string) error
}
