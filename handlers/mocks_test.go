package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/tallymatic/tallymatic-api/config"
	"github.com/tallymatic/tallymatic-api/logger"
	"github.com/tallymatic/tallymatic-api/middleware"
	"github.com/tallymatic/tallymatic-api/types"
)

func init() {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
}

// MockResourceService is a testify mock of ResourceService.
type MockResourceService[T any] struct {
	mock.Mock
}

func (m *MockResourceService[T]) Create(ctx context.Context, body types.Valuer) (*T, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockResourceService[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockResourceService[T]) Query(ctx context.Context, filter types.Filter, opts types.QueryOptions) (*types.Page[T], error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Page[T]), args.Error(1)
}

func (m *MockResourceService[T]) UpdateByID(ctx context.Context, id uuid.UUID, body types.Valuer) (*T, error) {
	args := m.Called(ctx, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockResourceService[T]) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*types.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthService) RefreshAuth(ctx context.Context, refreshToken string) (*types.AuthTokens, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AuthTokens), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, password string) error {
	return m.Called(ctx, token, password).Error(0)
}

func (m *MockAuthService) SendVerificationEmail(ctx context.Context, user *types.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) CheckHealth(ctx context.Context) types.HealthCheck {
	return m.Called(ctx).Get(0).(types.HealthCheck)
}

// asUser stands in for the auth middleware.
func asUser(user *types.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.PrincipalKey, user.Principal())
		c.Set(middleware.UserKey, user)
		c.Set(middleware.UserIDKey, user.ID.String())
		c.Next()
	}
}

func newTestEngine() *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler(&config.Config{Server: config.ServerConfig{Environment: config.EnvTest}}))
	return r
}

var (
	adminUser = &types.User{ID: uuid.New(), Name: "Admin", Email: "admin@example.com", Role: types.RoleAdmin}
	plainUser = &types.User{ID: uuid.New(), Name: "Plain", Email: "plain@example.com", Role: types.RoleUser}
)
