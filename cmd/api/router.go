package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"charaforge-backend/internal/shared/middleware"
	"charaforge-backend/pkg/container"
)

func setupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())

	router.GET("/health", healthCheck(c))

	v1 := router.Group("/api/v1")

	auth := middleware.AuthMiddleware(c.JWTManager)
	optionalAuth := middleware.OptionalAuthMiddleware(c.JWTManager)
	admin := middleware.AdminMiddleware()

	// Auth
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", c.UserHandler.Register)
		authRoutes.POST("/login", c.UserHandler.Login)
		authRoutes.POST("/refresh", c.UserHandler.Refresh)
	}

	// Users
	users := v1.Group("/users")
	{
		users.GET("/me", auth, c.UserHandler.Me)
		users.PUT("/me", auth, c.UserHandler.UpdateMe)
		users.GET("/:id", c.UserHandler.GetProfile)
		users.GET("/:id/stats", c.UserHandler.GetStats)
		users.GET("/:id/characters", optionalAuth, c.CharacterHandler.ListByUser)
		users.POST("/:id/follow", auth, c.UserHandler.Follow)
		users.DELETE("/:id/follow", auth, c.UserHandler.Unfollow)
	}

	// Characters
	characters := v1.Group("/characters")
	{
		characters.GET("", c.CharacterHandler.ListPublic)
		characters.POST("", auth, c.CharacterHandler.Create)
		characters.GET("/mine", auth, c.CharacterHandler.ListMine)
		characters.GET("/:id", optionalAuth, c.CharacterHandler.Get)
		characters.PATCH("/:id/status", auth, c.CharacterHandler.UpdateStatus)
		characters.DELETE("/:id", auth, c.CharacterHandler.Delete)
		characters.POST("/:id/like", auth, c.CharacterHandler.Like)
		characters.DELETE("/:id/like", auth, c.CharacterHandler.Unlike)
	}

	// Data packs
	packs := v1.Group("/packs")
	{
		packs.GET("", c.DatapackHandler.List)
		packs.GET("/:id", c.DatapackHandler.Get)
		packs.POST("/:id/install", auth, c.DatapackHandler.Install)
	}

	// Generation
	generate := v1.Group("/generate", auth)
	{
		generate.POST("/profile", c.GenerationHandler.GenerateProfile)
		generate.POST("/portrait", c.GenerationHandler.GeneratePortrait)
	}

	// Admin
	adminRoutes := v1.Group("/admin", auth, admin)
	{
		adminRoutes.POST("/packs", c.DatapackHandler.Create)
		adminRoutes.PUT("/packs/:id", c.DatapackHandler.Update)
		adminRoutes.DELETE("/packs/:id", c.DatapackHandler.Delete)
	}

	return router
}

// healthCheck reports the state of each hard dependency.
func healthCheck(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := 200
		checks := gin.H{}

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			checks["database"] = "down"
			status = 503
		} else {
			checks["database"] = "up"
			checks["db_pool"] = c.DB.Stats()
		}

		if err := c.Cache.Ping(checkCtx); err != nil {
			checks["redis"] = "down"
			status = 503
		} else {
			checks["redis"] = "up"
		}

		state := "ok"
		if status != 200 {
			state = "degraded"
		}

		ctx.JSON(status, gin.H{
			"status": state,
			"checks": checks,
		})
	}
}
