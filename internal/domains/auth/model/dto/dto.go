package dto

import (
	"time"

	"docemania/infras/jwt"
	userDto "docemania/internal/domains/user/model/dto"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login" json:"last_login" validate:"required"`
}

// Session is the token pair handed to an admin after login or refresh.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (s *Session) FromTokenPair(tokenPair *jwt.TokenPair) {
	s.AccessToken = tokenPair.AccessToken
	s.RefreshToken = tokenPair.RefreshToken
	s.TokenType = tokenPair.TokenType
	s.ExpiresIn = tokenPair.ExpiresIn
}

type LoginResponse struct {
	Session
	User userDto.UserResponse `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	Session
}

// LogoutRequest optionally carries the refresh token so both halves of the session are revoked.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password" json:"password" validate:"required"`
}
