package dto

import (
	"time"

	"github.com/SoftwareVerse/userverse/internal/security"
)

type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email,max=255"`
	Password    string  `json:"password" binding:"required,min=8,max=128"`
	FirstName   *string `json:"first_name,omitempty" binding:"omitempty,max=255"`
	LastName    *string `json:"last_name,omitempty" binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" binding:"omitempty,e164"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	TokenType        string    `json:"token_type"`
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_token_expiration"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_token_expiration"`
}

func ToTokenResponse(p security.TokenPair) TokenResponse {
	return TokenResponse{
		TokenType:        "bearer",
		AccessToken:      p.AccessToken,
		AccessExpiresAt:  p.AccessExpiresAt,
		RefreshToken:     p.RefreshToken,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}

type LoginResponse struct {
	User  *UserResponse `json:"user"`
	Token TokenResponse `json:"token"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,alphanum"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}
