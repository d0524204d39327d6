package usecase

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	"github.com/itsprade/good-morning/internal/auth/repository"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/googleauth"
)

type credentialProvider struct {
	userRepo repository.UserRepository
}

func NewCredentialProvider(userRepo repository.UserRepository) CredentialProvider {
	return &credentialProvider{userRepo: userRepo}
}

func (p *credentialProvider) GoogleCredentials(ctx context.Context, userID string) (*authdomain.User, googleauth.Credentials, error) {
	user, err := p.userRepo.FindByID(userID)
	if err != nil {
		return nil, googleauth.Credentials{}, err
	}
	if user == nil {
		return nil, googleauth.Credentials{}, apperror.NotFound("user")
	}
	if !user.HasGoogleCredential() {
		return user, googleauth.Credentials{}, apperror.ErrNoCredential
	}

	creds := googleauth.Credentials{
		AccessToken:  user.GoogleAccessToken,
		RefreshToken: user.GoogleRefreshToken,
		OnRefresh: func(t *oauth2.Token) error {
			var expiry *time.Time
			if !t.Expiry.IsZero() {
				e := t.Expiry
				expiry = &e
			}
			return p.userRepo.UpdateGoogleTokens(userID, t.AccessToken, t.RefreshToken, expiry)
		},
	}
	if user.GoogleTokenExpiry != nil {
		creds.Expiry = *user.GoogleTokenExpiry
	}
	return user, creds, nil
}
