package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SoftwareVerse/userverse/core/db"
	"github.com/SoftwareVerse/userverse/internal/model"
)

const userColumns = `id, first_name, last_name, email, phone_number, password_hash, status, is_superuser, created_at, updated_at`

type userStore struct {
	conn db.DBTX
}

func newUserStore(conn db.DBTX) UserStore {
	return &userStore{conn: conn}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError("getting user", err)
	}
	return user, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, mapError("getting user by email", err)
	}
	return user, nil
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	row := s.conn.QueryRow(ctx, `
		INSERT INTO users (id, first_name, last_name, email, phone_number, password_hash, status, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		user.ID, user.FirstName, user.LastName, user.Email, user.PhoneNumber,
		user.PasswordHash, user.Status, user.IsSuperuser,
	)
	created, err := scanUser(row)
	if err != nil {
		return mapError("creating user", err)
	}
	*user = *created
	return nil
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	row := s.conn.QueryRow(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, phone_number = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.FirstName, user.LastName, user.PhoneNumber,
	)
	updated, err := scanUser(row)
	if err != nil {
		return mapError("updating user", err)
	}
	*user = *updated
	return nil
}

func (s *userStore) UpdateStatus(ctx context.Context, id int64, status model.AccountStatus) error {
	tag, err := s.conn.Exec(ctx,
		`UPDATE users SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return mapError("updating user status", err)
	}
	return rowsAffected(tag)
}

func (s *userStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := s.conn.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return mapError("updating user password", err)
	}
	return rowsAffected(tag)
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber,
		&u.PasswordHash, &u.Status, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
