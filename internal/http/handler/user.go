package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SoftwareVerse/userverse/internal/http/dto"
	"github.com/SoftwareVerse/userverse/internal/http/middleware"
	"github.com/SoftwareVerse/userverse/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(c *gin.Context) {
	user := middleware.GetUser(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	actor := middleware.GetUser(c.Request.Context())
	user, err := h.userService.Update(c.Request.Context(), actor.ID, service.UpdateUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		respondError(c, err, "failed to update user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *UserHandler) ListCompanies(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	actor := middleware.GetUser(c.Request.Context())
	page, err := h.userService.ListCompanies(c.Request.Context(), actor.ID, q.Page())
	if err != nil {
		respondError(c, err, "failed to list companies")
		return
	}
	c.JSON(http.StatusOK, dto.MapPage(page, dto.ToCompanyBrief))
}
