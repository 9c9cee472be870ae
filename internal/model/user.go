package model

import "time"

// AccountStatus is the lifecycle state of a user account.
type AccountStatus string

const (
	AccountStatusAwaitingVerification AccountStatus = "awaiting_verification"
	AccountStatusActive               AccountStatus = "active"
	AccountStatusSuspended            AccountStatus = "suspended"
	AccountStatusDeactivated          AccountStatus = "deactivated"
	AccountStatusBanned               AccountStatus = "banned"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusAwaitingVerification, AccountStatusActive, AccountStatusSuspended,
		AccountStatusDeactivated, AccountStatusBanned:
		return true
	}
	return false
}

// CanLogIn reports whether credentials for an account in this state are accepted.
func (s AccountStatus) CanLogIn() bool {
	return s == AccountStatusActive || s == AccountStatusAwaitingVerification
}

func (s AccountStatus) Description() string {
	switch s {
	case AccountStatusAwaitingVerification:
		return "User must verify their email"
	case AccountStatusActive:
		return "Verified and allowed to log in"
	case AccountStatusSuspended:
		return "Temporarily disabled by admin"
	case AccountStatusDeactivated:
		return "User closed or deleted account"
	case AccountStatusBanned:
		return "Permanently removed for violating terms"
	}
	return ""
}

type User struct {
	ID           int64         `json:"id"`
	FirstName    *string       `json:"first_name,omitempty"`
	LastName     *string       `json:"last_name,omitempty"`
	Email        string        `json:"email"`
	PhoneNumber  *string       `json:"phone_number,omitempty"`
	PasswordHash string        `json:"-"`
	Status       AccountStatus `json:"status"`
	IsSuperuser  bool          `json:"is_superuser"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// FullName joins the non-empty name parts with a space.
func (u *User) FullName() string {
	var name string
	for _, part := range []*string{u.FirstName, u.LastName} {
		if part == nil || *part == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += *part
	}
	return name
}
