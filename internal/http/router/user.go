package router

import (
	"github.com/gin-gonic/gin"

	"github.com/SoftwareVerse/userverse/internal/http/handler"
)

func UserRouter(rg *gin.RouterGroup, auth *handler.AuthHandler, users *handler.UserHandler, requireAuth gin.HandlerFunc) {
	rg.POST("", auth.Register)
	rg.POST("/login", auth.Login)
	rg.POST("/token/refresh", auth.Refresh)
	rg.GET("/verify", auth.Verify)
	rg.POST("/password-reset/request", auth.RequestPasswordReset)
	rg.PATCH("/password-reset/validate-otp", auth.ResetPassword)

	authed := rg.Group("", requireAuth)
	authed.POST("/verify/resend", auth.ResendVerification)
	authed.GET("/get", users.Me)
	authed.PATCH("/update", users.Update)
	authed.GET("/companies", users.ListCompanies)
}
