package dto

import (
	"time"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

// GoogleSignInRequest carries the ID token and, when the client ran the
// offline-access consent, the OAuth tokens used for Gmail and Calendar.
type GoogleSignInRequest struct {
	Token        string     `json:"token" binding:"required"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	User         *authdomain.User `json:"user"`
}

// ConnectGoogleRequest stores OAuth tokens obtained by the client.
type ConnectGoogleRequest struct {
	AccessToken  string     `json:"accessToken" binding:"required"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

// GoogleCredentialStatus is a masked view of the stored credential.
type GoogleCredentialStatus struct {
	Connected        bool       `json:"connected"`
	AccessToken      string     `json:"accessToken,omitempty"`
	HasRefreshToken  bool       `json:"hasRefreshToken"`
	ExpiresAt        *time.Time `json:"expiresAt,omitempty"`
	LastSyncedAt     *time.Time `json:"lastSyncedAt,omitempty"`
	NeedsInitialSync bool       `json:"needsInitialSync"`
}
