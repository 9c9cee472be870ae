package store

import (
	"context"

	"github.com/SoftwareVerse/userverse/core/db"
	"github.com/SoftwareVerse/userverse/internal/model"
)

type memberStore struct {
	conn db.DBTX
}

func newMemberStore(conn db.DBTX) MemberStore {
	return &memberStore{conn: conn}
}

func (s *memberStore) Get(ctx context.Context, companyID, userID int64) (*model.Member, error) {
	var m model.Member
	err := s.conn.QueryRow(ctx, `
		SELECT company_id, user_id, role_name, added_by, created_at
		FROM company_members WHERE company_id = $1 AND user_id = $2`,
		companyID, userID,
	).Scan(&m.CompanyID, &m.UserID, &m.RoleName, &m.AddedBy, &m.CreatedAt)
	if err != nil {
		return nil, mapError("getting member", err)
	}
	return &m, nil
}

func (s *memberStore) Add(ctx context.Context, member *model.Member) error {
	err := s.conn.QueryRow(ctx, `
		INSERT INTO company_members (company_id, user_id, role_name, added_by)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		member.CompanyID, member.UserID, member.RoleName, member.AddedBy,
	).Scan(&member.CreatedAt)
	if err != nil {
		return mapError("adding member", err)
	}
	return nil
}

func (s *memberStore) Remove(ctx context.Context, companyID, userID int64) error {
	tag, err := s.conn.Exec(ctx,
		`DELETE FROM company_members WHERE company_id = $1 AND user_id = $2`, companyID, userID)
	if err != nil {
		return mapError("removing member", err)
	}
	return rowsAffected(tag)
}

func (s *memberStore) List(ctx context.Context, companyID int64, page model.Page) ([]model.Member, int, error) {
	var total int
	if err := s.conn.QueryRow(ctx,
		`SELECT count(*) FROM company_members WHERE company_id = $1`, companyID,
	).Scan(&total); err != nil {
		return nil, 0, mapError("counting members", err)
	}

	rows, err := s.conn.Query(ctx, `
		SELECT m.company_id, m.user_id, m.role_name, m.added_by, m.created_at,
		       u.id, u.first_name, u.last_name, u.email, u.phone_number, u.password_hash,
		       u.status, u.is_superuser, u.created_at, u.updated_at
		FROM company_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.company_id = $1
		ORDER BY m.created_at, m.user_id
		LIMIT $2 OFFSET $3`,
		companyID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, mapError("listing members", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		var u model.User
		if err := rows.Scan(
			&m.CompanyID, &m.UserID, &m.RoleName, &m.AddedBy, &m.CreatedAt,
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.PasswordHash,
			&u.Status, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, mapError("scanning member", err)
		}
		m.User = &u
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("listing members", err)
	}
	return members, total, nil
}

func (s *memberStore) CountByRole(ctx context.Context, companyID int64, roleName string) (int, error) {
	var n int
	if err := s.conn.QueryRow(ctx,
		`SELECT count(*) FROM company_members WHERE company_id = $1 AND role_name = $2`,
		companyID, roleName,
	).Scan(&n); err != nil {
		return 0, mapError("counting members by role", err)
	}
	return n, nil
}
