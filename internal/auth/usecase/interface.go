package usecase

import (
	"context"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	authdto "github.com/itsprade/good-morning/internal/auth/dto"
	"github.com/itsprade/good-morning/pkg/googleauth"
)

type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	GoogleSignIn(ctx context.Context, req *authdto.GoogleSignInRequest) (*authdto.TokenResponse, error)
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)
	Logout(refreshToken string) error
	ValidateToken(tokenString string) (*authdomain.User, error)

	ConnectGoogle(userID string, req *authdto.ConnectGoogleRequest) error
	GoogleCredentialStatus(userID string) (*authdto.GoogleCredentialStatus, error)
}

// CredentialProvider hands out a user's stored Google credential. Refreshed
// tokens are written back through Credentials.OnRefresh.
type CredentialProvider interface {
	GoogleCredentials(ctx context.Context, userID string) (*authdomain.User, googleauth.Credentials, error)
}
