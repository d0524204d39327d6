package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itsprade/good-morning/internal/notification/repository"
	"github.com/itsprade/good-morning/pkg/apperror"
)

type RegisterTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"deviceInfo"`
}

type DeviceHandler struct {
	tokens repository.DeviceTokenRepository
}

func NewDeviceHandler(tokens repository.DeviceTokenRepository) *DeviceHandler {
	return &DeviceHandler{tokens: tokens}
}

// POST /api/fcm/register
func (h *DeviceHandler) Register(c *gin.Context) {
	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}
	if err := h.tokens.Save(c.GetString("userID"), req.Token, req.DeviceInfo); err != nil {
		apperror.Respond(c, err, "Failed to register device")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/fcm/:token
func (h *DeviceHandler) Unregister(c *gin.Context) {
	if err := h.tokens.Delete(c.GetString("userID"), c.Param("token")); err != nil {
		apperror.Respond(c, err, "Failed to unregister device")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
