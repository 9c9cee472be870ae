package model

import "time"

type Company struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Industry    *string   `json:"industry,omitempty"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Address     *string   `json:"address,omitempty"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Every company is created with these two roles.
const (
	RoleAdministrator = "Administrator"
	RoleViewer        = "Viewer"
)

// DefaultRoles are seeded for each new company; they cannot be deleted.
var DefaultRoles = []Role{
	{Name: RoleAdministrator, Description: "Full access to the company and its members"},
	{Name: RoleViewer, Description: "Read-only access to the company"},
}

func IsDefaultRole(name string) bool {
	for _, r := range DefaultRoles {
		if r.Name == name {
			return true
		}
	}
	return false
}

type Role struct {
	CompanyID   int64     `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   *int64    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Member is a user's link to a company, with the user's profile attached for listings.
type Member struct {
	CompanyID int64     `json:"company_id"`
	UserID    int64     `json:"user_id"`
	RoleName  string    `json:"role_name"`
	AddedBy   *int64    `json:"added_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
}

// PasswordReset is an outstanding one-time code for resetting a password.
type PasswordReset struct {
	UserID    int64
	OTPHash   string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
}
