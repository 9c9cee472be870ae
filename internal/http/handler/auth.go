package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SoftwareVerse/userverse/internal/http/dto"
	"github.com/SoftwareVerse/userverse/internal/http/middleware"
	"github.com/SoftwareVerse/userverse/internal/service"
)

type AuthHandler struct {
	authService     service.AuthService
	passwordService service.PasswordService
}

func NewAuthHandler(authService service.AuthService, passwordService service.PasswordService) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		passwordService: passwordService,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondError(c, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		User:  dto.ToUserResponse(user),
		Token: dto.ToTokenResponse(pair),
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err, "failed to refresh token")
		return
	}
	c.JSON(http.StatusOK, dto.ToTokenResponse(pair))
}

func (h *AuthHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	user, err := h.authService.Verify(c.Request.Context(), token)
	if err != nil {
		respondError(c, err, "failed to verify account")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	user := middleware.GetUser(c.Request.Context())

	if err := h.authService.ResendVerification(c.Request.Context(), user.ID); err != nil {
		respondError(c, err, "failed to resend verification")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "verification email sent"})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.passwordService.RequestReset(c.Request.Context(), req.Email, c.ClientIP()); err != nil {
		respondError(c, err, "failed to request password reset")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "if the account exists, a reset code has been sent"})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.passwordService.ResetWithOTP(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		respondError(c, err, "failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
