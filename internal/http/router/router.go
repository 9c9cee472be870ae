package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SoftwareVerse/userverse/internal/http/handler"
	"github.com/SoftwareVerse/userverse/internal/http/middleware"
	"github.com/SoftwareVerse/userverse/internal/service"
)

type RouterConfig struct {
	// RateLimiter is applied to every route when set.
	RateLimiter *middleware.IPRateLimiter
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("")
	if cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	authService := services.Auth()
	requireAuth := middleware.RequireAuth(authService)

	authHandler := handler.NewAuthHandler(authService, services.Passwords())
	userHandler := handler.NewUserHandler(services.Users())
	UserRouter(api.Group("/user"), authHandler, userHandler, requireAuth)

	companyHandler := handler.NewCompanyHandler(services.Companies())
	CompanyRouter(api.Group("/company", requireAuth), companyHandler)
}
