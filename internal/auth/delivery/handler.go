package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdto "github.com/itsprade/good-morning/internal/auth/dto"
	"github.com/itsprade/good-morning/internal/auth/usecase"
	"github.com/itsprade/good-morning/pkg/apperror"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.authUsecase.Register(&req)
	if err != nil {
		apperror.Respond(c, err, "Failed to register")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.authUsecase.Login(&req)
	if err != nil {
		apperror.Respond(c, err, "Failed to log in")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/auth/google
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req authdto.GoogleSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.authUsecase.GoogleSignIn(c.Request.Context(), &req)
	if err != nil {
		apperror.Respond(c, err, "Failed to sign in with Google")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := h.authUsecase.RefreshToken(req.RefreshToken)
	if err != nil {
		apperror.Respond(c, err, "Failed to refresh session")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.authUsecase.Logout(req.RefreshToken); err != nil {
		apperror.Respond(c, err, "Failed to log out")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c)})
}

// POST /api/auth/google/tokens
func (h *AuthHandler) ConnectGoogle(c *gin.Context) {
	var req authdto.ConnectGoogleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.authUsecase.ConnectGoogle(c.GetString(ContextUserID), &req); err != nil {
		apperror.Respond(c, err, "Failed to store Google tokens")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Google account connected"})
}

// GET /api/auth/google/status
func (h *AuthHandler) GoogleStatus(c *gin.Context) {
	status, err := h.authUsecase.GoogleCredentialStatus(c.GetString(ContextUserID))
	if err != nil {
		apperror.Respond(c, err, "Failed to read Google credential")
		return
	}
	c.JSON(http.StatusOK, status)
}
