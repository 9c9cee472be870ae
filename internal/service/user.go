package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SoftwareVerse/userverse/internal/model"
	"github.com/SoftwareVerse/userverse/internal/security"
	"github.com/SoftwareVerse/userverse/internal/store"
)

// UpdateUserInput carries the profile fields a user may change. Nil fields are left as they are.
type UpdateUserInput struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Password    *string
}

type UserService interface {
	Get(ctx context.Context, userID int64) (*model.User, error)
	Update(ctx context.Context, userID int64, in UpdateUserInput) (*model.User, error)
	ListCompanies(ctx context.Context, userID int64, page model.Page) (model.PageResult[model.Company], error)
}

type userService struct {
	userStore    store.UserStore
	companyStore store.CompanyStore
}

func NewUserService(userStore store.UserStore, companyStore store.CompanyStore) UserService {
	return &userService{
		userStore:    userStore,
		companyStore: companyStore,
	}
}

func (s *userService) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, userID int64, in UpdateUserInput) (*model.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = in.FirstName
	}
	if in.LastName != nil {
		user.LastName = in.LastName
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = in.PhoneNumber
	}

	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	if in.Password != nil {
		hash, err := security.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		if err := s.userStore.UpdatePassword(ctx, user.ID, hash); err != nil {
			return nil, fmt.Errorf("updating password: %w", err)
		}
		user.PasswordHash = hash
	}

	slog.InfoContext(ctx, "user updated", "user_id", user.ID)
	return user, nil
}

func (s *userService) ListCompanies(ctx context.Context, userID int64, page model.Page) (model.PageResult[model.Company], error) {
	page = page.Normalize()
	companies, total, err := s.companyStore.ListByUser(ctx, userID, page)
	if err != nil {
		return model.PageResult[model.Company]{}, fmt.Errorf("listing companies: %w", err)
	}
	return model.NewPageResult(companies, total, page), nil
}
