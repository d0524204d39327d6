package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authdelivery "github.com/itsprade/good-morning/internal/auth/delivery"
	calendardelivery "github.com/itsprade/good-morning/internal/calendar/delivery"
	dashboarddelivery "github.com/itsprade/good-morning/internal/dashboard/delivery"
	emaildelivery "github.com/itsprade/good-morning/internal/email/delivery"
	notifdelivery "github.com/itsprade/good-morning/internal/notification/delivery"
	summarydelivery "github.com/itsprade/good-morning/internal/summary/delivery"
	syncdelivery "github.com/itsprade/good-morning/internal/syncer/delivery"
	taskdelivery "github.com/itsprade/good-morning/internal/task/delivery"
)

func SetupRoutes(r *gin.Engine, a *App) {
	authHandler := authdelivery.NewAuthHandler(a.Auth)
	syncHandler := syncdelivery.NewSyncHandler(a.Syncer)
	calendarHandler := calendardelivery.NewCalendarHandler(a.Calendar)
	emailActionHandler := emaildelivery.NewEmailActionHandler(a.EmailAction)
	taskHandler := taskdelivery.NewTaskHandler(a.Task)
	summaryHandler := summarydelivery.NewSummaryHandler(a.Summary)
	dashboardHandler := dashboarddelivery.NewDashboardHandler(a.Dashboard)
	deviceHandler := notifdelivery.NewDeviceHandler(a.DeviceTokens)
	settingsHandler := NewSettingsHandler(a.AI, a.Ollama)

	requireAuth := authdelivery.AuthMiddleware(a.Auth)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.POST("/google/tokens", requireAuth, authHandler.ConnectGoogle)
			auth.GET("/google/status", requireAuth, authHandler.GoogleStatus)
		}

		protected := api.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/dashboard", dashboardHandler.Get)
			protected.POST("/initial-sync", syncHandler.InitialSync)
			protected.POST("/gmail/sync", syncHandler.SyncMail)
			protected.POST("/calendar/sync", syncHandler.SyncCalendar)
			protected.GET("/calendar/today", calendarHandler.Today)
			protected.GET("/summary/today", summaryHandler.Today)

			emailActions := protected.Group("/email-actions")
			{
				emailActions.GET("", emailActionHandler.ListSuggestions)
				emailActions.POST("/:id/convert", emailActionHandler.Convert)
				emailActions.POST("/:id/dismiss", emailActionHandler.Dismiss)
			}

			tasks := protected.Group("/tasks")
			{
				tasks.GET("", taskHandler.GetTasks)
				tasks.GET("/search", taskHandler.SearchTasks)
				tasks.POST("", taskHandler.CreateTask)
				tasks.PATCH("/:id", taskHandler.UpdateTask)
				tasks.DELETE("/:id", taskHandler.DeleteTask)
			}

			fcm := protected.Group("/fcm")
			{
				fcm.POST("/register", deviceHandler.Register)
				fcm.DELETE("/:token", deviceHandler.Unregister)
			}

			settings := protected.Group("/settings")
			{
				settings.GET("/ai", settingsHandler.Get)
				settings.PUT("/ai", settingsHandler.Update)
				settings.POST("/ai/test", settingsHandler.Test)
			}
		}

		// Scheduled jobs, called by an external cron with CRON_SECRET
		cron := api.Group("/cron")
		cron.Use(syncdelivery.CronAuth(a.Config.CronSecret))
		{
			cron.GET("/daily-sync", syncHandler.DailySync)
			cron.GET("/sync-gmail", syncHandler.SyncAllMail)
			cron.GET("/sync-calendars", syncHandler.SyncAllCalendars)
		}
	}
}
