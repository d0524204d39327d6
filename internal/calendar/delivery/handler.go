package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itsprade/good-morning/internal/calendar/domain"
	"github.com/itsprade/good-morning/internal/calendar/usecase"
	"github.com/itsprade/good-morning/pkg/apperror"
)

type CalendarHandler struct {
	calendarUsecase usecase.CalendarUsecase
}

func NewCalendarHandler(calendarUsecase usecase.CalendarUsecase) *CalendarHandler {
	return &CalendarHandler{calendarUsecase: calendarUsecase}
}

// GET /api/calendar/today
func (h *CalendarHandler) Today(c *gin.Context) {
	events, err := h.calendarUsecase.TodayEvents(c.GetString("userID"))
	if err != nil {
		apperror.Respond(c, err, "Failed to fetch events")
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
