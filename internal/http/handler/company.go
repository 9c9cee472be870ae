package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SoftwareVerse/userverse/common/logger"
	"github.com/SoftwareVerse/userverse/internal/http/dto"
	"github.com/SoftwareVerse/userverse/internal/http/middleware"
	"github.com/SoftwareVerse/userverse/internal/service"
)

type CompanyHandler struct {
	companyService service.CompanyService
}

func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// scope resolves the acting user and the :company_id path parameter and tags the request context with both.
func scope(c *gin.Context) (ctx context.Context, actorID, companyID int64, ok bool) {
	companyID, ok = pathID(c, "company_id")
	if !ok {
		return nil, 0, 0, false
	}
	actor := middleware.GetUser(c.Request.Context())
	ctx = logger.WithLogFields(c.Request.Context(), logger.LogFields{CompanyID: &companyID})
	c.Request = c.Request.WithContext(ctx)
	return ctx, actor.ID, companyID, true
}

func (h *CompanyHandler) Create(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	actor := middleware.GetUser(c.Request.Context())
	company, err := h.companyService.Create(c.Request.Context(), actor.ID, service.CompanyInput{
		Name:        req.Name,
		Description: req.Description,
		Industry:    req.Industry,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		respondError(c, err, "failed to create company")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCompanyResponse(company))
}

func (h *CompanyHandler) Get(c *gin.Context) {
	ctx, actorID, companyID, ok := scope(c)
	if !ok {
		return
	}

	company, err := h.companyService.Get(ctx, actorID, companyID)
	if err != nil {
		respondError(c, err, "failed to get company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

func (h *CompanyHandler) Update(c *gin.Context) {
	ctx, actorID, companyID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	company, err := h.companyService.Update(ctx, actorID, companyID, service.UpdateCompanyInput{
		Name:        req.Name,
		Description: req.Description,
		Industry:    req.Industry,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		respondError(c, err, "failed to update company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

func (h *CompanyHandler) ListMembers(c *gin.Context) {
	ctx, actorID, companyID, ok := scope(c)
	if !ok {
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.companyService.ListMembers(ctx, actorID, companyID, q.Page())
	if err != nil {
		respondError(c, err, "failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.MapPage(page, dto.ToMemberResponse))
}

func (h *CompanyHandler) AddMember(c *gin.Context) {
	ctx, actorID, companyID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	member, err := h.companyService.AddMember(ctx, actorID, companyID, req.Email, req.RoleName)
	if err != nil {
		respondError(c, err, "failed to add member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToMemberResponse(*member))
}

func (h *CompanyHandler) RemoveMember(c *gin.Context) {
	ctx, actorID, companyID, ok := scope(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	if err := h.companyService.RemoveMember(ctx, actorID, companyID, userID); err != nil {
		respondError(c, err, "failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CompanyHandler) ListRoles(c *gin.Context) {
	ctx, actorID, companyID, ok := scope(c)
	if !ok {
		return
	}

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.companyService.ListRoles(ctx, actorID, companyID, q.Page())
	if err != nil {
		respondError(c, err, "failed to list roles")
		return
	}
	c.JSON(http.StatusOK, dto.MapPage(page, dto.ToRoleResponse))
}

func (h *CompanyHandler) CreateRole(c *gin.Context) {
	ctx, actorID, companyID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	role, err := h.companyService.CreateRole(ctx, actorID, companyID, req.Name, req.Description)
	if err != nil {
		respondError(c, err, "failed to create role")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRoleResponse(*role))
}

func (h *CompanyHandler) UpdateRole(c *gin.Context) {
	ctx, actorID, companyID, ok := scope(c)
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	role, err := h.companyService.UpdateRole(ctx, actorID, companyID, c.Param("role_name"), req.Description)
	if err != nil {
		respondError(c, err, "failed to update role")
		return
	}
	c.JSON(http.StatusOK, dto.ToRoleResponse(*role))
}

func (h *CompanyHandler) DeleteRole(c *gin.Context) {
	ctx, actorID, companyID, ok := scope(c)
	if !ok {
		return
	}

	if err := h.companyService.DeleteRole(ctx, actorID, companyID, c.Param("role_name")); err != nil {
		respondError(c, err, "failed to delete role")
		return
	}
	c.Status(http.StatusNoContent)
}
