package identity

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/buildpay/backend/internal/domain/shared"
)

// UserRole represents a user's role within their company
type UserRole string

const (
	RoleOwner      UserRole = "owner"
	RoleAdmin      UserRole = "admin"
	RoleBookkeeper UserRole = "bookkeeper"
	RoleMember     UserRole = "member"
)

// IsValid checks if the role is valid
func (r UserRole) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleBookkeeper, RoleMember:
		return true
	}
	return false
}

// User is an account belonging to a company
type User struct {
	shared.BaseAggregateRoot
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Email        string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Name         string    `gorm:"not null"`
	Role         UserRole  `gorm:"not null;default:'member'"`
	Active       bool      `gorm:"not null;default:true"`
}

// NewUser creates a new user with a bcrypt-hashed password
func NewUser(companyID uuid.UUID, email, password, name string, role UserRole) (*User, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unsupported user role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyID:         companyID,
		Email:             email,
		PasswordHash:      string(hash),
		Name:              name,
		Role:              role,
		Active:            true,
	}, nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(newPassword string) error {
	if len(newPassword) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.IncrementVersion()
	return nil
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Active = false
	u.IncrementVersion()
}
