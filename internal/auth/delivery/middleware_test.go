package delivery

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	authdomain "github.com/itsprade/good-morning/internal/auth/domain"
	authdto "github.com/itsprade/good-morning/internal/auth/dto"
	"github.com/itsprade/good-morning/pkg/apperror"
)

// MockAuthUsecase only implements ValidateToken; the other methods are unused here.
type MockAuthUsecase struct {
	ValidateTokenFunc func(token string) (*authdomain.User, error)
}

func (m *MockAuthUsecase) Login(*authdto.LoginRequest) (*authdto.TokenResponse, error) {
	return nil, nil
}
func (m *MockAuthUsecase) Register(*authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	return nil, nil
}
func (m *MockAuthUsecase) GoogleSignIn(context.Context, *authdto.GoogleSignInRequest) (*authdto.TokenResponse, error) {
	return nil, nil
}
func (m *MockAuthUsecase) RefreshToken(string) (*authdto.TokenResponse, error) { return nil, nil }
func (m *MockAuthUsecase) Logout(string) error                                   { return nil }
func (m *MockAuthUsecase) ConnectGoogle(string, *authdto.ConnectGoogleRequest) error {
	return nil
}
func (m *MockAuthUsecase) GoogleCredentialStatus(string) (*authdto.GoogleCredentialStatus, error) {
	return nil, nil
}
func (m *MockAuthUsecase) ValidateToken(token string) (*authdomain.User, error) {
	return m.ValidateTokenFunc(token)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mock := &MockAuthUsecase{
		ValidateTokenFunc: func(token string) (*authdomain.User, error) {
			switch token {
			case "good":
				return &authdomain.User{ID: "u1"}, nil
			case "orphan":
				return nil, apperror.NotFound("user")
			default:
				return nil, fmt.Errorf("bad token: %w", apperror.ErrUnauthorized)
			}
		},
	}

	r := gin.New()
	r.GET("/protected", AuthMiddleware(mock), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})

	tests := []struct {
		name   string
		header string
		want   int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, ""},
		{"deleted user", "Bearer orphan", http.StatusNotFound, ""},
		{"valid", "Bearer good", http.StatusOK, "u1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.body != "" && w.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}
