package store

import "github.com/SoftwareVerse/userverse/core/db"

// Stores hands out stores bound to one connection: the pool, or a transaction.
type Stores struct {
	conn db.DBTX
}

func NewStores(conn db.DBTX) *Stores {
	return &Stores{conn: conn}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.conn)
}

func (s *Stores) Companies() CompanyStore {
	return newCompanyStore(s.conn)
}

func (s *Stores) Roles() RoleStore {
	return newRoleStore(s.conn)
}

func (s *Stores) Members() MemberStore {
	return newMemberStore(s.conn)
}

func (s *Stores) PasswordResets() PasswordResetStore {
	return newPasswordResetStore(s.conn)
}
