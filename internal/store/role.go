package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SoftwareVerse/userverse/core/db"
	"github.com/SoftwareVerse/userverse/internal/model"
)

const roleColumns = `company_id, name, description, created_by, created_at, updated_at`

type roleStore struct {
	conn db.DBTX
}

func newRoleStore(conn db.DBTX) RoleStore {
	return &roleStore{conn: conn}
}

func (s *roleStore) Get(ctx context.Context, companyID int64, name string) (*model.Role, error) {
	row := s.conn.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE company_id = $1 AND name = $2`, companyID, name)
	role, err := scanRole(row)
	if err != nil {
		return nil, mapError("getting role", err)
	}
	return role, nil
}

func (s *roleStore) Create(ctx context.Context, role *model.Role) error {
	row := s.conn.QueryRow(ctx, `
		INSERT INTO roles (company_id, name, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING `+roleColumns,
		role.CompanyID, role.Name, role.Description, role.CreatedBy,
	)
	created, err := scanRole(row)
	if err != nil {
		return mapError("creating role", err)
	}
	*role = *created
	return nil
}

func (s *roleStore) Update(ctx context.Context, role *model.Role) error {
	row := s.conn.QueryRow(ctx, `
		UPDATE roles SET description = $3, updated_at = now()
		WHERE company_id = $1 AND name = $2
		RETURNING `+roleColumns,
		role.CompanyID, role.Name, role.Description,
	)
	updated, err := scanRole(row)
	if err != nil {
		return mapError("updating role", err)
	}
	*role = *updated
	return nil
}

func (s *roleStore) Delete(ctx context.Context, companyID int64, name string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM roles WHERE company_id = $1 AND name = $2`, companyID, name)
	if err != nil {
		return mapError("deleting role", err)
	}
	return rowsAffected(tag)
}

func (s *roleStore) List(ctx context.Context, companyID int64, page model.Page) ([]model.Role, int, error) {
	var total int
	if err := s.conn.QueryRow(ctx,
		`SELECT count(*) FROM roles WHERE company_id = $1`, companyID,
	).Scan(&total); err != nil {
		return nil, 0, mapError("counting roles", err)
	}

	rows, err := s.conn.Query(ctx, `
		SELECT `+roleColumns+` FROM roles
		WHERE company_id = $1
		ORDER BY created_at, name
		LIMIT $2 OFFSET $3`,
		companyID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, mapError("listing roles", err)
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, 0, mapError("scanning role", err)
		}
		roles = append(roles, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("listing roles", err)
	}
	return roles, total, nil
}

func scanRole(row pgx.Row) (*model.Role, error) {
	var r model.Role
	if err := row.Scan(&r.CompanyID, &r.Name, &r.Description, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
