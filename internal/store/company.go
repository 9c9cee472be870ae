package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SoftwareVerse/userverse/core/db"
	"github.com/SoftwareVerse/userverse/internal/model"
)

const companyColumns = `c.id, c.name, c.description, c.industry, c.email, c.phone_number, c.address, c.created_by, c.created_at, c.updated_at`

type companyStore struct {
	conn db.DBTX
}

func newCompanyStore(conn db.DBTX) CompanyStore {
	return &companyStore{conn: conn}
}

func (s *companyStore) GetByID(ctx context.Context, id int64) (*model.Company, error) {
	row := s.conn.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies c WHERE c.id = $1`, id)
	company, err := scanCompany(row)
	if err != nil {
		return nil, mapError("getting company", err)
	}
	return company, nil
}

func (s *companyStore) GetByEmail(ctx context.Context, email string) (*model.Company, error) {
	row := s.conn.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies c WHERE lower(c.email) = lower($1)`, email)
	company, err := scanCompany(row)
	if err != nil {
		return nil, mapError("getting company by email", err)
	}
	return company, nil
}

func (s *companyStore) Create(ctx context.Context, company *model.Company) error {
	row := s.conn.QueryRow(ctx, `
		INSERT INTO companies AS c (id, name, description, industry, email, phone_number, address, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+companyColumns,
		company.ID, company.Name, company.Description, company.Industry,
		company.Email, company.PhoneNumber, company.Address, company.CreatedBy,
	)
	created, err := scanCompany(row)
	if err != nil {
		return mapError("creating company", err)
	}
	*company = *created
	return nil
}

func (s *companyStore) Update(ctx context.Context, company *model.Company) error {
	row := s.conn.QueryRow(ctx, `
		UPDATE companies AS c
		SET name = $2, description = $3, industry = $4, phone_number = $5, address = $6, updated_at = now()
		WHERE c.id = $1
		RETURNING `+companyColumns,
		company.ID, company.Name, company.Description, company.Industry,
		company.PhoneNumber, company.Address,
	)
	updated, err := scanCompany(row)
	if err != nil {
		return mapError("updating company", err)
	}
	*company = *updated
	return nil
}

func (s *companyStore) ListByUser(ctx context.Context, userID int64, page model.Page) ([]model.Company, int, error) {
	var total int
	if err := s.conn.QueryRow(ctx,
		`SELECT count(*) FROM company_members WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, mapError("counting user companies", err)
	}

	rows, err := s.conn.Query(ctx, `
		SELECT `+companyColumns+`
		FROM companies c
		JOIN company_members m ON m.company_id = c.id
		WHERE m.user_id = $1
		ORDER BY c.name, c.id
		LIMIT $2 OFFSET $3`,
		userID, page.Limit, page.Offset,
	)
	if err != nil {
		return nil, 0, mapError("listing user companies", err)
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, mapError("scanning company", err)
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapError("listing user companies", err)
	}
	return companies, total, nil
}

func scanCompany(row pgx.Row) (*model.Company, error) {
	var c model.Company
	if err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Industry, &c.Email, &c.PhoneNumber,
		&c.Address, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
