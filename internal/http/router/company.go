package router

import (
	"github.com/gin-gonic/gin"

	"github.com/SoftwareVerse/userverse/internal/http/handler"
)

func CompanyRouter(rg *gin.RouterGroup, h *handler.CompanyHandler) {
	rg.POST("", h.Create)
	rg.GET("/:company_id", h.Get)
	rg.PATCH("/:company_id", h.Update)

	rg.GET("/:company_id/users", h.ListMembers)
	rg.POST("/:company_id/users", h.AddMember)
	rg.DELETE("/:company_id/users/:user_id", h.RemoveMember)

	rg.GET("/:company_id/roles", h.ListRoles)
	rg.POST("/:company_id/roles", h.CreateRole)
	rg.PATCH("/:company_id/roles/:role_name", h.UpdateRole)
	rg.DELETE("/:company_id/roles/:role_name", h.DeleteRole)
}
