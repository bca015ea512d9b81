// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required,min=1,max=255"`
	Password   string `json:"password"   validate:"required,min=8,max=128"`
}

type RegisterRequest struct {
	Nom      string `json:"nom"      validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type ProfileResponse struct {
	ID              string   `json:"id"`
	Kind            string   `json:"kind"`
	Nom             string   `json:"nom"`
	Email           string   `json:"email"`
	Role            string   `json:"role,omitempty"`
	CodeAffiliation string   `json:"code_affiliation,omitempty"`
	Permissions     []string `json:"permissions"`
}

type AuthResponse struct {
	Profile ProfileResponse `json:"profile"`
	Tokens  TokenResponse   `json:"tokens"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}
