package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/tallymatic/tallymatic-api/errors"
	"github.com/tallymatic/tallymatic-api/middleware"
	"github.com/tallymatic/tallymatic-api/types"
)

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register mounts the /v1/auth endpoints. requireAuth guards the one endpoint
// that acts on the signed-in user.
func (h *AuthHandler) Register(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/register", Wrap(h.register))
	rg.POST("/login", Wrap(h.login))
	rg.POST("/logout", Wrap(h.logout))
	rg.POST("/refresh-tokens", Wrap(h.refreshTokens))
	rg.POST("/forgot-password", Wrap(h.forgotPassword))
	rg.POST("/reset-password", Wrap(h.resetPassword))
	rg.POST("/send-verification-email", requireAuth, Dispatch(Authenticated, h.sendVerificationEmail))
	rg.POST("/verify-email", Wrap(h.verifyEmail))
}

func bindJSON(c *gin.Context, body any) error {
	if err := c.ShouldBindJSON(body); err != nil {
		return apperrors.ValidationFailed("Invalid request body", err.Error())
	}
	return nil
}

func queryToken(c *gin.Context) (string, error) {
	token := c.Query("token")
	if token == "" {
		return "", apperrors.ValidationFailed("Missing token", "token query parameter is required")
	}
	return token, nil
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}

// register godoc
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body types.RegisterRequest true "Name, email and password"
// @Success 201 {object} types.AuthResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid body or email already taken"
// @Router /auth/register [post]
func (h *AuthHandler) register(c *gin.Context) error {
	var req types.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		return err
	}
	c.JSON(http.StatusCreated, resp)
	return nil
}

// login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body types.LoginRequest true "Credentials"
// @Success 200 {object} types.AuthResponse
// @Failure 401 {object} middleware.ErrorResponse "Incorrect email or password"
// @Router /auth/login [post]
func (h *AuthHandler) login(c *gin.Context) error {
	var req types.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, resp)
	return nil
}

// logout godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param request body types.RefreshTokenRequest true "Refresh token"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse "Unknown token"
// @Router /auth/logout [post]
func (h *AuthHandler) logout(c *gin.Context) error {
	var req types.RefreshTokenRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		return err
	}
	noContent(c)
	return nil
}

// refreshTokens godoc
// @Summary Rotate a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body types.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} types.AuthTokens
// @Failure 401 {object} middleware.ErrorResponse "Please authenticate"
// @Router /auth/refresh-tokens [post]
func (h *AuthHandler) refreshTokens(c *gin.Context) error {
	var req types.RefreshTokenRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	tokens, err := h.authService.RefreshAuth(c.Request.Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, tokens)
	return nil
}

// forgotPassword godoc
// @Summary Send a password reset email
// @Tags auth
// @Accept json
// @Param request body types.ForgotPasswordRequest true "Account email"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse "No users found with this email"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) forgotPassword(c *gin.Context) error {
	var req types.ForgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		return err
	}
	noContent(c)
	return nil
}

// resetPassword godoc
// @Summary Set a new password
// @Tags auth
// @Accept json
// @Param token query string true "Reset token"
// @Param request body types.ResetPasswordRequest true "New password"
// @Success 204
// @Failure 401 {object} middleware.ErrorResponse "Password reset failed"
// @Router /auth/reset-password [post]
func (h *AuthHandler) resetPassword(c *gin.Context) error {
	token, err := queryToken(c)
	if err != nil {
		return err
	}
	var req types.ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.authService.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		return err
	}
	noContent(c)
	return nil
}

// sendVerificationEmail godoc
// @Summary Email a verification link to the signed-in user
// @Tags auth
// @Success 204
// @Failure 401 {object} middleware.ErrorResponse "Please authenticate"
// @Router /auth/send-verification-email [post]
// @Security BearerAuth
func (h *AuthHandler) sendVerificationEmail(c *gin.Context, _ *Request) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return apperrors.InternalServerError("no user on authenticated route")
	}
	if err := h.authService.SendVerificationEmail(c.Request.Context(), user); err != nil {
		return err
	}
	noContent(c)
	return nil
}

// verifyEmail godoc
// @Summary Mark the email of the token owner as verified
// @Tags auth
// @Param token query string true "Verification token"
// @Success 204
// @Failure 401 {object} middleware.ErrorResponse "Email verification failed"
// @Router /auth/verify-email [post]
func (h *AuthHandler) verifyEmail(c *gin.Context) error {
	token, err := queryToken(c)
	if err != nil {
		return err
	}
	if err := h.authService.VerifyEmail(c.Request.Context(), token); err != nil {
		return err
	}
	noContent(c)
	return nil
}
