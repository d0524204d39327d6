package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdelivery "github.com/itsprade/good-morning/internal/auth/delivery"
	"github.com/itsprade/good-morning/internal/dashboard/usecase"
	"github.com/itsprade/good-morning/pkg/apperror"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{dashboardUsecase: dashboardUsecase}
}

// GET /api/dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	user := authdelivery.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	d, err := h.dashboardUsecase.Build(c.Request.Context(), user)
	if err != nil {
		apperror.Respond(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}
