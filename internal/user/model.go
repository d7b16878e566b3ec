package user

import (
	"net/http"
	"time"

	"github.com/unispace-app/unispace-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "User not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "User with this email already exists")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "Invalid email or password")
	ErrInvalidRole        = apperror.New(http.StatusBadRequest, "Role must be user or admin")
	ErrNameRequired       = apperror.New(http.StatusBadRequest, "Name is required")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "Valid email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "Password must be at least 6 characters")
)

// Role is the access level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an account in the system.
type User struct {
	ID           string // UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Filter defines filter options for listing users.
type Filter struct {
	Email string
	Role  string

	Page     int
	PageSize int
}
