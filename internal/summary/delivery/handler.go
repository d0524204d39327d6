package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itsprade/good-morning/internal/summary/usecase"
	"github.com/itsprade/good-morning/pkg/apperror"
)

type SummaryHandler struct {
	summaryUsecase usecase.SummaryUsecase
}

func NewSummaryHandler(summaryUsecase usecase.SummaryUsecase) *SummaryHandler {
	return &SummaryHandler{summaryUsecase: summaryUsecase}
}

// GET /api/summary/today
func (h *SummaryHandler) Today(c *gin.Context) {
	summary, err := h.summaryUsecase.Today(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		apperror.Respond(c, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
