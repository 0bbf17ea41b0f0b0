package app

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"projecthub/internal/config"
	"projecthub/internal/handlers"
	"projecthub/internal/realtime"
	"projecthub/internal/repositories"
	"projecthub/internal/routes"
	"projecthub/internal/services"
)

func Run() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()
	if err := repositories.EnsureSchema(db); err != nil {
		log.Fatal("failed to ensure schema: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	goalRepo := repositories.NewGoalRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	activityRepo := repositories.NewActivityRepository(db)

	// === Realtime ===
	// The hub is handed to services as an explicit Publisher capability;
	// nothing reaches for it through globals.
	hub := realtime.NewHub()

	// === Services ===
	activityService := services.NewActivityService(activityRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, hub)
	membershipService := services.NewMembershipService(
		taskRepo, chatRepo, projectRepo, userRepo, notificationRepo,
		notificationService, activityService, hub,
	)
	mentionService := services.NewMentionService(userRepo, notificationService)
	chatService := services.NewChatService(
		taskRepo, chatRepo, goalRepo, userRepo,
		membershipService, mentionService, hub,
	)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo, notificationService, activityService)
	projectService := services.NewProjectService(projectRepo)

	// === Handlers ===
	jwtSecret := []byte(cfg.Auth.JWTSecret)
	taskHandler := handlers.NewTaskHandler(taskService, membershipService)
	projectHandler := handlers.NewProjectHandler(projectService)
	chatHandler := handlers.NewChatHandler(chatService, membershipService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, membershipService)
	activityHandler := handlers.NewActivityHandler(activityService)
	realtimeHandler := handlers.NewRealtimeHandler(hub, jwtSecret)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware(cfg.CORS.AllowedOrigin))

	routes.SetupRoutes(
		router,
		jwtSecret,
		taskHandler,
		projectHandler,
		chatHandler,
		notificationHandler,
		activityHandler,
		realtimeHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server stopped: ", err)
	}
}

func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
