package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	authdto "github.com/itsprade/good-morning/internal/auth/dto"
	"github.com/itsprade/good-morning/internal/auth/repository"
	"github.com/itsprade/good-morning/pkg/apperror"
	"github.com/itsprade/good-morning/pkg/config"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo     repository.UserRepository
	config       *config.Config
	httpClient   *http.Client
	tokenInfoURL string
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		config:       cfg,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		tokenInfoURL: googleTokenInfoURL,
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("invalid email or password: %w", apperror.ErrUnauthorized)
	}
	if user.Provider != authdomain.ProviderEmail {
		return nil, apperror.InvalidInput("please use Google Sign-In for this account")
	}
	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, fmt.Errorf("invalid email or password: %w", apperror.ErrUnauthorized)
	}
	return u.generateTokens(user)
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.InvalidState("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		Provider: authdomain.ProviderEmail,
	}
	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}
	return u.generateTokens(user)
}

// GoogleTokenInfo represents the response from Google's tokeninfo endpoint
type GoogleTokenInfo struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified string `json:"email_verified"` // "true" or "false"
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
}

func (u *authUsecase) verifyIDToken(ctx context.Context, idToken string) (*GoogleTokenInfo, error) {
	endpoint := u.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Upstream("google", fmt.Errorf("failed to verify Google token: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google rejected token (status %d: %s): %w", resp.StatusCode, string(body), apperror.ErrUnauthorized)
	}

	var info GoogleTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode Google token info: %w", err)
	}
	if info.EmailVerified != "true" {
		return nil, fmt.Errorf("google email is not verified: %w", apperror.ErrUnauthorized)
	}
	if u.config.GoogleClientID != "" && info.Aud != "" && info.Aud != u.config.GoogleClientID {
		return nil, fmt.Errorf("token issued for another client: %w", apperror.ErrUnauthorized)
	}
	return &info, nil
}

func (u *authUsecase) GoogleSignIn(ctx context.Context, req *authdto.GoogleSignInRequest) (*authdto.TokenResponse, error) {
	info, err := u.verifyIDToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByEmail(info.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &authdomain.User{
			Email:     info.Email,
			Name:      info.Name,
			AvatarURL: info.Picture,
			Provider:  authdomain.ProviderGoogle,
		}
		applyGoogleTokens(user, req.AccessToken, req.RefreshToken, req.ExpiresAt)
		if err := u.userRepo.Create(user); err != nil {
			return nil, err
		}
	} else {
		user.Name = info.Name
		user.AvatarURL = info.Picture
		applyGoogleTokens(user, req.AccessToken, req.RefreshToken, req.ExpiresAt)
		if err := u.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	return u.generateTokens(user)
}

func applyGoogleTokens(user *authdomain.User, access, refresh string, expiry *time.Time) {
	if access == "" {
		return
	}
	user.GoogleAccessToken = access
	user.GoogleTokenExpiry = expiry
	if refresh != "" {
		user.GoogleRefreshToken = refresh
	}
}

func (u *authUsecase) ConnectGoogle(userID string, req *authdto.ConnectGoogleRequest) error {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("user")
	}
	return u.userRepo.UpdateGoogleTokens(userID, req.AccessToken, req.RefreshToken, req.ExpiresAt)
}

func (u *authUsecase) GoogleCredentialStatus(userID string) (*authdto.GoogleCredentialStatus, error) {
	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}

	status := &authdto.GoogleCredentialStatus{
		Connected:        user.HasGoogleCredential(),
		HasRefreshToken:  user.GoogleRefreshToken != "",
		ExpiresAt:        user.GoogleTokenExpiry,
		LastSyncedAt:     user.LastSyncedAt,
		NeedsInitialSync: user.NeedsInitialSync(),
	}
	if status.Connected {
		status.AccessToken = maskToken(user.GoogleAccessToken)
	}
	return status, nil
}

func maskToken(t string) string {
	if len(t) <= 12 {
		return "***"
	}
	return t[:8] + "..." + t[len(t)-4:]
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	userID, err := u.parseUserID(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", apperror.ErrUnauthorized)
	}

	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("refresh token expired: %w", apperror.ErrUnauthorized)
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}

	// Rotate: the used refresh token is spent.
	if err := u.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, err
	}
	return u.generateTokens(user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	return u.userRepo.DeleteRefreshToken(refreshToken)
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := u.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.SaveRefreshToken(refreshTokenEntity); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) generateRefreshToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) parseUserID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid token claims")
	}
	return userID, nil
}

// ValidateToken resolves a session access token to its user. A valid token
// for a deleted user is a not-found error.
func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	userID, err := u.parseUserID(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperror.ErrUnauthorized)
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}
	return user, nil
}
