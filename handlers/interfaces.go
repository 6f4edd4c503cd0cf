package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/tallymatic/tallymatic-api/types"
)

// ResourceService is the data access service behind one resource. GetByID
// returns a nil record without an error when the id is unknown.
type ResourceService[T any] interface {
	Create(ctx context.Context, body types.Valuer) (*T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	Query(ctx context.Context, filter types.Filter, opts types.QueryOptions) (*types.Page[T], error)
	UpdateByID(ctx context.Context, id uuid.UUID, body types.Valuer) (*T, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// PermissionChecker answers whether any of roles may perform action on resource.
type PermissionChecker interface {
	CheckPermissions(roles []string, action types.Action, resource types.Resource) bool
}

type AuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*types.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshAuth(ctx context.Context, refreshToken string) (*types.AuthTokens, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	SendVerificationEmail(ctx context.Context, user *types.User) error
	VerifyEmail(ctx context.Context, token string) error
}

type HealthChecker interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}
