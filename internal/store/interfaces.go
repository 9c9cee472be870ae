package store

import (
	"context"
	"errors"
	"time"

	"github.com/SoftwareVerse/userverse/internal/model"
)

var (
	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness or reference constraint
	ErrConflict = errors.New("conflict")
)

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	UpdateStatus(ctx context.Context, id int64, status model.AccountStatus) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// CompanyStore defines the contract for company data access
type CompanyStore interface {
	GetByID(ctx context.Context, id int64) (*model.Company, error)
	GetByEmail(ctx context.Context, email string) (*model.Company, error)
	Create(ctx context.Context, company *model.Company) error
	Update(ctx context.Context, company *model.Company) error
	ListByUser(ctx context.Context, userID int64, page model.Page) ([]model.Company, int, error)
}

// RoleStore defines the contract for company role data access
type RoleStore interface {
	Get(ctx context.Context, companyID int64, name string) (*model.Role, error)
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, companyID int64, name string) error
	List(ctx context.Context, companyID int64, page model.Page) ([]model.Role, int, error)
}

// MemberStore defines the contract for company membership data access
type MemberStore interface {
	Get(ctx context.Context, companyID, userID int64) (*model.Member, error)
	Add(ctx context.Context, member *model.Member) error
	Remove(ctx context.Context, companyID, userID int64) error
	List(ctx context.Context, companyID int64, page model.Page) ([]model.Member, int, error)
	CountByRole(ctx context.Context, companyID int64, roleName string) (int, error)
}

// PasswordResetStore defines the contract for password reset codes
type PasswordResetStore interface {
	Upsert(ctx context.Context, reset *model.PasswordReset) error
	Get(ctx context.Context, userID int64) (*model.PasswordReset, error)
	IncrementAttempts(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
