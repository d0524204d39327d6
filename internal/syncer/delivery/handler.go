package delivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/itsprade/good-morning/internal/syncer/usecase"
	"github.com/itsprade/good-morning/pkg/apperror"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
}

func NewSyncHandler(syncUsecase usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{syncUsecase: syncUsecase}
}

// POST /api/gmail/sync
func (h *SyncHandler) SyncMail(c *gin.Context) {
	result, err := h.syncUsecase.SyncMail(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		apperror.Respond(c, err, "Failed to sync Gmail")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   result.Count,
		"total":   result.Total,
		"message": result.Message,
	})
}

// POST /api/calendar/sync
func (h *SyncHandler) SyncCalendar(c *gin.Context) {
	count, err := h.syncUsecase.SyncCalendar(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		apperror.Respond(c, err, "Failed to sync calendar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

// POST /api/initial-sync
func (h *SyncHandler) InitialSync(c *gin.Context) {
	results, err := h.syncUsecase.InitialSync(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		apperror.Respond(c, err, "Initial sync failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "results": results})
}

// GET /api/cron/daily-sync
func (h *SyncHandler) DailySync(c *gin.Context) {
	h.runBatch(c, h.syncUsecase.DailySync, "Daily sync failed")
}

// GET /api/cron/sync-gmail
func (h *SyncHandler) SyncAllMail(c *gin.Context) {
	h.runBatch(c, h.syncUsecase.SyncAllMail, "Gmail sync failed")
}

// GET /api/cron/sync-calendars
func (h *SyncHandler) SyncAllCalendars(c *gin.Context) {
	h.runBatch(c, h.syncUsecase.SyncAllCalendars, "Calendar sync failed")
}

// runBatch detaches the batch from the request so a dropped scheduler
// connection does not abort it.
func (h *SyncHandler) runBatch(c *gin.Context, run func(context.Context) (*usecase.BatchResult, error), summary string) {
	batch, err := run(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		apperror.Respond(c, err, summary)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"syncedUsers": batch.SyncedUsers,
		"results":     batch.Results,
	})
}
