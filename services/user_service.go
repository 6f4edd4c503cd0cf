package services

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/store"
	"github.com/tallymatic/tallymatic-api/types"
)

const (
	minPasswordLength = 8
	emailTakenMessage = "Email already taken"
)

// UserService manages dashboard accounts. Passwords are validated and hashed here,
// so the store only ever sees bcrypt hashes.
type UserService struct {
	*ResourceService[types.User]
	users store.UserStore
	cost  int
}

func NewUserService(users store.UserStore) *UserService {
	base := NewResourceService[types.User](users, types.UserResource.Label)
	base.conflictMsg = emailTakenMessage
	return &UserService{
		ResourceService: base,
		users:           users,
		cost:            bcrypt.DefaultCost,
	}
}

func (s *UserService) Create(ctx context.Context, body types.Valuer) (*types.User, error) {
	values := body.Values()
	if err := s.prepare(ctx, uuid.Nil, values); err != nil {
		return nil, err
	}
	return s.insert(ctx, values)
}

func (s *UserService) UpdateByID(ctx context.Context, id uuid.UUID, body types.Valuer) (*types.User, error) {
	values := body.Values()
	if err := s.prepare(ctx, id, values); err != nil {
		return nil, err
	}
	return s.update(ctx, id, values)
}

// GetByEmail returns nil without an error when no account uses email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	user, err := s.users.GetByEmail(ctx, types.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.translate(err, nil)
	}
	return user, nil
}

// CheckPassword reports whether password matches the stored hash.
func (s *UserService) CheckPassword(user *types.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

func (s *UserService) setPassword(ctx context.Context, id uuid.UUID, password string) error {
	values := map[string]any{"password": password}
	if err := s.prepare(ctx, id, values); err != nil {
		return err
	}
	_, err := s.update(ctx, id, values)
	return err
}

func (s *UserService) markEmailVerified(ctx context.Context, id uuid.UUID) error {
	_, err := s.update(ctx, id, map[string]any{"is_email_verified": true})
	return err
}

// prepare rejects a taken email and replaces a clear-text password with its hash.
func (s *UserService) prepare(ctx context.Context, id uuid.UUID, values map[string]any) error {
	if email, ok := values["email"].(string); ok {
		existing, err := s.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != id {
			return apperrors.BadRequest(emailTakenMessage)
		}
	}

	password, ok := values["password"].(string)
	if !ok {
		return nil
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	values["password"] = string(hash)
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.ValidationFailed("password must be at least 8 characters", "")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperrors.ValidationFailed("password must contain at least 1 letter and 1 number", "")
	}
	return nil
}
