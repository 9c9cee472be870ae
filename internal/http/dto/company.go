package dto

import (
	"time"

	"github.com/SoftwareVerse/userverse/internal/model"
)

type CreateCompanyRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	Industry    *string `json:"industry,omitempty" binding:"omitempty,max=255"`
	Email       string  `json:"email" binding:"required,email,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" binding:"omitempty,e164"`
	Address     *string `json:"address,omitempty" binding:"omitempty,max=1000"`
}

type UpdateCompanyRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	Industry    *string `json:"industry,omitempty" binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" binding:"omitempty,e164"`
	Address     *string `json:"address,omitempty" binding:"omitempty,max=1000"`
}

type CompanyResponse struct {
	ID          int64     `json:"id,string"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Industry    *string   `json:"industry,omitempty"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Address     *string   `json:"address,omitempty"`
	CreatedBy   int64     `json:"created_by,string"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToCompanyResponse(c *model.Company) *CompanyResponse {
	return &CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Industry:    c.Industry,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type AddMemberRequest struct {
	Email    string `json:"email" binding:"required,email"`
	RoleName string `json:"role_name,omitempty" binding:"omitempty,max=100"`
}

type MemberResponse struct {
	UserID    int64         `json:"user_id,string"`
	RoleName  string        `json:"role_name"`
	CreatedAt time.Time     `json:"created_at"`
	User      *UserResponse `json:"user,omitempty"`
}

func ToMemberResponse(m model.Member) MemberResponse {
	resp := MemberResponse{
		UserID:    m.UserID,
		RoleName:  m.RoleName,
		CreatedAt: m.CreatedAt,
	}
	if m.User != nil {
		resp.User = ToUserResponse(m.User)
	}
	return resp
}

type RoleRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type UpdateRoleRequest struct {
	Description string `json:"description" binding:"required,max=500"`
}

type RoleResponse struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToRoleResponse(r model.Role) RoleResponse {
	return RoleResponse{
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ToCompanyBrief(c model.Company) *CompanyResponse {
	return ToCompanyResponse(&c)
}
