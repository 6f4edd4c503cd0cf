package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/internal/auth"
	"github.com/tallymatic/tallymatic-api/logger"
	"github.com/tallymatic/tallymatic-api/store"
	"github.com/tallymatic/tallymatic-api/types"
)

// Mailer sends the account mails the auth flows need.
type Mailer interface {
	SendResetPasswordEmail(ctx context.Context, to, token string) error
	SendVerificationEmail(ctx context.Context, to, token string) error
}

// AuthService implements registration, login and the token lifecycle. Refresh,
// reset and verification tokens are only honoured while their id is in the
// token store.
type AuthService struct {
	users  *UserService
	tokens *auth.TokenService
	store  store.TokenStore
	mailer Mailer
}

func NewAuthService(users *UserService, tokens *auth.TokenService, tokenStore store.TokenStore, mailer Mailer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		store:  tokenStore,
		mailer: mailer,
	}
}

func (s *AuthService) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	user, err := s.users.Create(ctx, types.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     types.RoleUser,
	})
	if err != nil {
		return nil, err
	}
	tokens, err := s.GenerateAuthTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	logger.GetLogger().Infow("Registered user", "userID", user.ID, "email", logger.MaskEmail(user.Email))
	return &types.AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*types.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.users.CheckPassword(user, password) {
		logger.GetLogger().Infow("Rejected login", "email", logger.MaskEmail(email))
		return nil, apperrors.AuthenticationFailed("Incorrect email or password")
	}
	tokens, err := s.GenerateAuthTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{User: user, Tokens: tokens}, nil
}

// Logout revokes a refresh token. Unknown or already revoked tokens are NotFound.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Verify(refreshToken, types.TokenTypeRefresh)
	if err != nil {
		return apperrors.New(apperrors.NotFoundError, "Not found", "")
	}
	err = s.store.Delete(ctx, types.TokenTypeRefresh, claims.ID)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.New(apperrors.NotFoundError, "Not found", "")
	}
	return err
}

// RefreshAuth rotates a refresh token: the old one is revoked and a new pair issued.
func (s *AuthService) RefreshAuth(ctx context.Context, refreshToken string) (*types.AuthTokens, error) {
	user, claims, err := s.consume(ctx, refreshToken, types.TokenTypeRefresh)
	if err != nil {
		logger.GetLogger().Debugw("Refresh rejected", "error", err)
		return nil, apperrors.AuthenticationFailed("Please authenticate")
	}
	// The delete is the atomic consume: only one concurrent refresh of a token wins.
	err = s.store.Delete(ctx, types.TokenTypeRefresh, claims.ID)
	if errors.Is(err, store.ErrNotFound) {
		logger.GetLogger().Debugw("Refresh token already rotated", "tokenID", claims.ID)
		return nil, apperrors.AuthenticationFailed("Please authenticate")
	}
	if err != nil {
		return nil, err
	}
	return s.GenerateAuthTokens(ctx, user)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.New(apperrors.NotFoundError, "No users found with this email", "")
	}
	token, err := s.issue(ctx, user.ID, types.TokenTypeResetPassword)
	if err != nil {
		return err
	}
	return s.mailer.SendResetPasswordEmail(ctx, user.Email, token.Token)
}

// ResetPassword sets a new password and revokes every reset token of the user.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	user, _, err := s.consume(ctx, resetToken, types.TokenTypeResetPassword)
	if err != nil {
		logger.GetLogger().Debugw("Password reset rejected", "error", err)
		return apperrors.AuthenticationFailed("Password reset failed")
	}
	if err := s.users.setPassword(ctx, user.ID, password); err != nil {
		return err
	}
	return s.store.DeleteAllForUser(ctx, types.TokenTypeResetPassword, user.ID)
}

func (s *AuthService) SendVerificationEmail(ctx context.Context, user *types.User) error {
	token, err := s.issue(ctx, user.ID, types.TokenTypeVerifyEmail)
	if err != nil {
		return err
	}
	return s.mailer.SendVerificationEmail(ctx, user.Email, token.Token)
}

func (s *AuthService) VerifyEmail(ctx context.Context, verifyToken string) error {
	user, _, err := s.consume(ctx, verifyToken, types.TokenTypeVerifyEmail)
	if err != nil {
		logger.GetLogger().Debugw("Email verification rejected", "error", err)
		return apperrors.AuthenticationFailed("Email verification failed")
	}
	if err := s.store.DeleteAllForUser(ctx, types.TokenTypeVerifyEmail, user.ID); err != nil {
		return err
	}
	return s.users.markEmailVerified(ctx, user.ID)
}

// GenerateAuthTokens issues an access token and a stored refresh token.
func (s *AuthService) GenerateAuthTokens(ctx context.Context, user *types.User) (*types.AuthTokens, error) {
	access, err := s.tokens.Generate(user.ID, types.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issue(ctx, user.ID, types.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	return &types.AuthTokens{
		Access:  types.Token{Token: access.Token, Expires: access.Expires},
		Refresh: types.Token{Token: refresh.Token, Expires: refresh.Expires},
	}, nil
}

func (s *AuthService) issue(ctx context.Context, userID uuid.UUID, tokenType types.TokenType) (*auth.IssuedToken, error) {
	token, err := s.tokens.Generate(userID, tokenType)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, tokenType, token.ID, userID, s.tokens.TTL(tokenType)); err != nil {
		return nil, err
	}
	return token, nil
}

// consume checks a stored token and loads its owner. The token stays stored; the
// caller decides whether to revoke it.
func (s *AuthService) consume(ctx context.Context, token string, tokenType types.TokenType) (*types.User, *auth.Claims, error) {
	claims, err := s.tokens.Verify(token, tokenType)
	if err != nil {
		return nil, nil, err
	}
	subject, err := claims.UserID()
	if err != nil {
		return nil, nil, err
	}
	owner, err := s.store.Lookup(ctx, tokenType, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if owner != subject {
		return nil, nil, auth.ErrInvalidToken
	}
	user, err := s.users.GetByID(ctx, owner)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, store.ErrNotFound
	}
	return user, claims, nil
}
