package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SoftwareVerse/userverse/common/id"
	"github.com/SoftwareVerse/userverse/common/logger"
	"github.com/SoftwareVerse/userverse/internal/model"
	"github.com/SoftwareVerse/userverse/internal/store"
)

var (
	ErrCompanyNotFound   = errors.New("company not found")
	ErrCompanyEmailTaken = errors.New("a company with this email already exists")
	ErrForbidden         = errors.New("not allowed to perform this action")
	ErrMemberExists      = errors.New("user is already a member of this company")
	ErrMemberNotFound    = errors.New("member not found")
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleExists        = errors.New("role already exists")
	ErrRoleInUse         = errors.New("role is assigned to members")
	ErrDefaultRole       = errors.New("default roles cannot be modified")
	ErrLastAdministrator = errors.New("company must keep at least one administrator")
)

type CompanyInput struct {
	Name        string
	Description *string
	Industry    *string
	Email       string
	PhoneNumber *string
	Address     *string
}

// UpdateCompanyInput leaves nil fields unchanged. The company email is fixed at creation.
type UpdateCompanyInput struct {
	Name        *string
	Description *string
	Industry    *string
	PhoneNumber *string
	Address     *string
}

type CompanyService interface {
	Create(ctx context.Context, actorID int64, in CompanyInput) (*model.Company, error)
	Get(ctx context.Context, actorID, companyID int64) (*model.Company, error)
	Update(ctx context.Context, actorID, companyID int64, in UpdateCompanyInput) (*model.Company, error)

	AddMember(ctx context.Context, actorID, companyID int64, email, roleName string) (*model.Member, error)
	RemoveMember(ctx context.Context, actorID, companyID, userID int64) error
	ListMembers(ctx context.Context, actorID, companyID int64, page model.Page) (model.PageResult[model.Member], error)

	CreateRole(ctx context.Context, actorID, companyID int64, name, description string) (*model.Role, error)
	UpdateRole(ctx context.Context, actorID, companyID int64, name, description string) (*model.Role, error)
	DeleteRole(ctx context.Context, actorID, companyID int64, name string) error
	ListRoles(ctx context.Context, actorID, companyID int64, page model.Page) (model.PageResult[model.Role], error)
}

type companyService struct {
	stores   StoreProvider
	txRunner TxRunner
	mailer   Mailer
}

func NewCompanyService(stores StoreProvider, txRunner TxRunner, mailer Mailer) CompanyService {
	return &companyService{
		stores:   stores,
		txRunner: txRunner,
		mailer:   mailer,
	}
}

func (s *companyService) Create(ctx context.Context, actorID int64, in CompanyInput) (*model.Company, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.stores.Companies().GetByEmail(ctx, email); err == nil {
		return nil, ErrCompanyEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking company email: %w", err)
	}

	company := &model.Company{
		ID:          id.New(),
		Name:        in.Name,
		Description: in.Description,
		Industry:    in.Industry,
		Email:       email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		CreatedBy:   actorID,
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Companies().Create(ctx, company); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrCompanyEmailTaken
			}
			return fmt.Errorf("creating company: %w", err)
		}

		for _, def := range model.DefaultRoles {
			role := def
			role.CompanyID = company.ID
			role.CreatedBy = &actorID
			if err := stores.Roles().Create(ctx, &role); err != nil {
				return fmt.Errorf("creating role %q: %w", role.Name, err)
			}
		}

		if err := stores.Members().Add(ctx, &model.Member{
			CompanyID: company.ID,
			UserID:    actorID,
			RoleName:  model.RoleAdministrator,
			AddedBy:   &actorID,
		}); err != nil {
			return fmt.Errorf("adding creator as administrator: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{CompanyID: &company.ID})
	slog.InfoContext(ctx, "company created", "created_by", actorID)
	return company, nil
}

func (s *companyService) Get(ctx context.Context, actorID, companyID int64) (*model.Company, error) {
	if _, err := s.membership(ctx, actorID, companyID); err != nil {
		return nil, err
	}
	return s.company(ctx, companyID)
}

func (s *companyService) Update(ctx context.Context, actorID, companyID int64, in UpdateCompanyInput) (*model.Company, error) {
	if err := s.requireAdmin(ctx, actorID, companyID); err != nil {
		return nil, err
	}

	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		company.Name = *in.Name
	}
	if in.Description != nil {
		company.Description = in.Description
	}
	if in.Industry != nil {
		company.Industry = in.Industry
	}
	if in.PhoneNumber != nil {
		company.PhoneNumber = in.PhoneNumber
	}
	if in.Address != nil {
		company.Address = in.Address
	}

	if err := s.stores.Companies().Update(ctx, company); err != nil {
		return nil, fmt.Errorf("updating company: %w", err)
	}
	return company, nil
}

func (s *companyService) AddMember(ctx context.Context, actorID, companyID int64, email, roleName string) (*model.Member, error) {
	if err := s.requireAdmin(ctx, actorID, companyID); err != nil {
		return nil, err
	}

	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if roleName == "" {
		roleName = model.RoleViewer
	}
	if _, err := s.stores.Roles().Get(ctx, companyID, roleName); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("getting role: %w", err)
	}

	user, err := s.stores.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	member := &model.Member{
		CompanyID: companyID,
		UserID:    user.ID,
		RoleName:  roleName,
		AddedBy:   &actorID,
		User:      user,
	}
	if err := s.stores.Members().Add(ctx, member); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrMemberExists
		}
		return nil, fmt.Errorf("adding member: %w", err)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{CompanyID: &companyID, UserID: &user.ID})
	slog.InfoContext(ctx, "member added", "role", roleName, "added_by", actorID)

	data := map[string]any{
		"user_name":    user.FullName(),
		"company_name": company.Name,
		"role_name":    roleName,
	}
	if actor, err := s.stores.Users().GetByID(ctx, actorID); err == nil {
		data["invited_by"] = actor.Email
	}
	sendBestEffort(ctx, s.mailer, user.Email, "Company Membership", templateCompanyMembership, data)
	return member, nil
}

func (s *companyService) RemoveMember(ctx context.Context, actorID, companyID, userID int64) error {
	if err := s.requireAdmin(ctx, actorID, companyID); err != nil {
		return err
	}

	return s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		member, err := stores.Members().Get(ctx, companyID, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("getting member: %w", err)
		}

		if member.RoleName == model.RoleAdministrator {
			admins, err := stores.Members().CountByRole(ctx, companyID, model.RoleAdministrator)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return ErrLastAdministrator
			}
		}

		if err := stores.Members().Remove(ctx, companyID, userID); err != nil {
			return fmt.Errorf("removing member: %w", err)
		}
		slog.InfoContext(ctx, "member removed", "company_id", companyID, "user_id", userID, "removed_by", actorID)
		return nil
	})
}

func (s *companyService) ListMembers(ctx context.Context, actorID, companyID int64, page model.Page) (model.PageResult[model.Member], error) {
	if _, err := s.membership(ctx, actorID, companyID); err != nil {
		return model.PageResult[model.Member]{}, err
	}

	page = page.Normalize()
	members, total, err := s.stores.Members().List(ctx, companyID, page)
	if err != nil {
		return model.PageResult[model.Member]{}, fmt.Errorf("listing members: %w", err)
	}
	return model.NewPageResult(members, total, page), nil
}

func (s *companyService) CreateRole(ctx context.Context, actorID, companyID int64, name, description string) (*model.Role, error) {
	if err := s.requireAdmin(ctx, actorID, companyID); err != nil {
		return nil, err
	}

	role := &model.Role{
		CompanyID:   companyID,
		Name:        name,
		Description: description,
		CreatedBy:   &actorID,
	}
	if err := s.stores.Roles().Create(ctx, role); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrRoleExists
		}
		return nil, fmt.Errorf("creating role: %w", err)
	}
	return role, nil
}

func (s *companyService) UpdateRole(ctx context.Context, actorID, companyID int64, name, description string) (*model.Role, error) {
	if err := s.requireAdmin(ctx, actorID, companyID); err != nil {
		return nil, err
	}
	if model.IsDefaultRole(name) {
		return nil, ErrDefaultRole
	}

	role := &model.Role{CompanyID: companyID, Name: name, Description: description}
	if err := s.stores.Roles().Update(ctx, role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("updating role: %w", err)
	}
	return role, nil
}

func (s *companyService) DeleteRole(ctx context.Context, actorID, companyID int64, name string) error {
	if err := s.requireAdmin(ctx, actorID, companyID); err != nil {
		return err
	}
	if model.IsDefaultRole(name) {
		return ErrDefaultRole
	}

	return s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		inUse, err := stores.Members().CountByRole(ctx, companyID, name)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return ErrRoleInUse
		}
		if err := stores.Roles().Delete(ctx, companyID, name); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("deleting role: %w", err)
		}
		return nil
	})
}

func (s *companyService) ListRoles(ctx context.Context, actorID, companyID int64, page model.Page) (model.PageResult[model.Role], error) {
	if _, err := s.membership(ctx, actorID, companyID); err != nil {
		return model.PageResult[model.Role]{}, err
	}

	page = page.Normalize()
	roles, total, err := s.stores.Roles().List(ctx, companyID, page)
	if err != nil {
		return model.PageResult[model.Role]{}, fmt.Errorf("listing roles: %w", err)
	}
	return model.NewPageResult(roles, total, page), nil
}

func (s *companyService) company(ctx context.Context, companyID int64) (*model.Company, error) {
	company, err := s.stores.Companies().GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("getting company: %w", err)
	}
	return company, nil
}

// membership returns ErrCompanyNotFound for non-members so company IDs cannot be probed.
func (s *companyService) membership(ctx context.Context, actorID, companyID int64) (*model.Member, error) {
	member, err := s.stores.Members().Get(ctx, companyID, actorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	return member, nil
}

func (s *companyService) requireAdmin(ctx context.Context, actorID, companyID int64) error {
	member, err := s.membership(ctx, actorID, companyID)
	if err != nil {
		return err
	}
	if member.RoleName != model.RoleAdministrator {
		return ErrForbidden
	}
	return nil
}
