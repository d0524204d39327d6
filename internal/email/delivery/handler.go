package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	emaildomain "github.com/itsprade/good-morning/internal/email/domain"
	"github.com/itsprade/good-morning/internal/email/usecase"
	"github.com/itsprade/good-morning/pkg/apperror"
)

const defaultSuggestionLimit = 50

type EmailActionHandler struct {
	emailActionUsecase usecase.EmailActionUsecase
}

func NewEmailActionHandler(emailActionUsecase usecase.EmailActionUsecase) *EmailActionHandler {
	return &EmailActionHandler{emailActionUsecase: emailActionUsecase}
}

// GET /api/email-actions?limit=
func (h *EmailActionHandler) ListSuggestions(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSuggestionLimit)))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	actions, err := h.emailActionUsecase.ListSuggestions(c.GetString("userID"), limit)
	if err != nil {
		apperror.Respond(c, err, "Failed to fetch email actions")
		return
	}
	if actions == nil {
		actions = []*emaildomain.EmailAction{}
	}
	c.JSON(http.StatusOK, gin.H{"emailActions": actions})
}

// POST /api/email-actions/:id/convert
func (h *EmailActionHandler) Convert(c *gin.Context) {
	task, err := h.emailActionUsecase.Convert(c.GetString("userID"), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err, "Failed to convert to task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// POST /api/email-actions/:id/dismiss
func (h *EmailActionHandler) Dismiss(c *gin.Context) {
	action, err := h.emailActionUsecase.Dismiss(c.GetString("userID"), c.Param("id"))
	if err != nil {
		apperror.Respond(c, err, "Failed to dismiss email action")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "emailAction": action})
}
