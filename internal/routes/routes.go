package routes

import (
	"github.com/gin-gonic/gin"

	"projecthub/internal/handlers"
	"projecthub/internal/middleware"
	"projecthub/internal/models"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	taskHandler *handlers.TaskHandler,
	projectHandler *handlers.ProjectHandler,
	chatHandler *handlers.ChatHandler,
	notificationHandler *handlers.NotificationHandler,
	activityHandler *handlers.ActivityHandler,
	realtimeHandler *handlers.RealtimeHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })
	// websocket does its own handshake auth
	r.GET("/ws", realtimeHandler.Connect)

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))

	projects := r.Group("/projects")
	{
		projects.GET("/:id", projectHandler.Get)
	}

	tasks := r.Group("/tasks")
	{
		elevated := middleware.RequireRoles(models.RoleAdmin, models.RoleEditor)
		tasks.POST("/", elevated, taskHandler.Create)
		tasks.GET("/:id", taskHandler.Get)
		tasks.POST("/:id/members", elevated, taskHandler.AddMember)

		tasks.GET("/:id/chat/messages", chatHandler.ListMessages)
		tasks.POST("/:id/chat/messages", chatHandler.PostMessage)
		tasks.POST("/:id/chat/invite", chatHandler.Invite)
		tasks.GET("/:id/chat/goals", chatHandler.ListGoals)
		tasks.POST("/:id/chat/goals", chatHandler.CreateGoal)
	}

	chats := r.Group("/chats")
	{
		chats.POST("/:id/leave", chatHandler.Leave)
	}

	goals := r.Group("/goals")
	{
		goals.PATCH("/:goalId/status", chatHandler.UpdateGoalStatus)
		goals.PATCH("/:goalId/title", chatHandler.UpdateGoalTitle)
		goals.DELETE("/:goalId", chatHandler.DeleteGoal)
	}

	notifications := r.Group("/notifications")
	{
		notifications.GET("/", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
		notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		notifications.POST("/:id/respond", notificationHandler.Respond)
		notifications.DELETE("/:id", notificationHandler.Delete)
	}

	activity := r.Group("/activity")
	{
		activity.GET("/", activityHandler.List)
		activity.PATCH("/:id/read", activityHandler.MarkRead)
	}

	return r
}
