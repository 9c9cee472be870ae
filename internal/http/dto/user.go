package dto

import (
	"time"

	"github.com/SoftwareVerse/userverse/internal/model"
)

type UpdateUserRequest struct {
	FirstName   *string `json:"first_name,omitempty" binding:"omitempty,max=255"`
	LastName    *string `json:"last_name,omitempty" binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number,omitempty" binding:"omitempty,e164"`
	Password    *string `json:"password,omitempty" binding:"omitempty,min=8,max=128"`
}

type UserResponse struct {
	ID          int64     `json:"id,string"`
	FirstName   *string   `json:"first_name,omitempty"`
	LastName    *string   `json:"last_name,omitempty"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Status:      string(u.Status),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// PageQuery binds ?limit=&offset= for listings.
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

func (q PageQuery) Page() model.Page {
	return model.Page{Limit: q.Limit, Offset: q.Offset}
}

type PageResponse[T any] struct {
	Records []T `json:"records"`
	Total   int `json:"total"`
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
}

// MapPage converts a page of models with fn.
func MapPage[M, T any](p model.PageResult[M], fn func(M) T) PageResponse[T] {
	records := make([]T, 0, len(p.Records))
	for _, r := range p.Records {
		records = append(records, fn(r))
	}
	return PageResponse[T]{Records: records, Total: p.Total, Limit: p.Limit, Offset: p.Offset}
}
