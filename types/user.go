package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Principal is the authenticated caller as seen by authorization.
type Principal struct {
	ID    uuid.UUID
	Email string
	Roles []string
}

// User is a dashboard account. Password holds the bcrypt hash and never leaves the API.
type User struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	Password        string    `json:"-" db:"password"`
	Role            Role      `json:"role" db:"role"`
	IsEmailVerified bool      `json:"is_email_verified" db:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Principal derives the authorization view of the user.
func (u *User) Principal() *Principal {
	roles := []string{}
	if u.Role != "" {
		roles = append(roles, string(u.Role))
	}
	return &Principal{ID: u.ID, Email: u.Email, Roles: roles}
}

// CreateUserRequest is the admin-facing create body. Password arrives in clear text
// and is hashed by the user service.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role" binding:"omitempty,oneof=user admin"`
}

func (r CreateUserRequest) Values() map[string]any {
	role := r.Role
	if role == "" {
		role = RoleUser
	}
	return map[string]any{
		"name":     strings.TrimSpace(r.Name),
		"email":    NormalizeEmail(r.Email),
		"password": r.Password,
		"role":     string(role),
	}
}

type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password"`
	Role     *Role   `json:"role" binding:"omitempty,oneof=user admin"`
}

func (r UpdateUserRequest) Values() map[string]any {
	values := map[string]any{}
	if r.Name != nil {
		values["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		values["email"] = NormalizeEmail(*r.Email)
	}
	if r.Password != nil {
		values["password"] = *r.Password
	}
	if r.Role != nil {
		values["role"] = string(*r.Role)
	}
	return values
}

// NormalizeEmail trims and lower-cases an address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
