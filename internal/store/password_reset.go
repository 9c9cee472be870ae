package store

import (
	"context"
	"time"

	"github.com/SoftwareVerse/userverse/core/db"
	"github.com/SoftwareVerse/userverse/internal/model"
)

type passwordResetStore struct {
	conn db.DBTX
}

func newPasswordResetStore(conn db.DBTX) PasswordResetStore {
	return &passwordResetStore{conn: conn}
}

// Upsert replaces any outstanding code for the user and resets the attempt count.
func (s *passwordResetStore) Upsert(ctx context.Context, reset *model.PasswordReset) error {
	err := s.conn.QueryRow(ctx, `
		INSERT INTO password_resets (user_id, otp_hash, attempts, expires_at)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET otp_hash = EXCLUDED.otp_hash, attempts = 0, expires_at = EXCLUDED.expires_at, created_at = now()
		RETURNING attempts, created_at`,
		reset.UserID, reset.OTPHash, reset.ExpiresAt,
	).Scan(&reset.Attempts, &reset.CreatedAt)
	if err != nil {
		return mapError("storing password reset", err)
	}
	return nil
}

func (s *passwordResetStore) Get(ctx context.Context, userID int64) (*model.PasswordReset, error) {
	var r model.PasswordReset
	err := s.conn.QueryRow(ctx, `
		SELECT user_id, otp_hash, attempts, expires_at, created_at
		FROM password_resets WHERE user_id = $1`, userID,
	).Scan(&r.UserID, &r.OTPHash, &r.Attempts, &r.ExpiresAt, &r.CreatedAt)
	if err != nil {
		return nil, mapError("getting password reset", err)
	}
	return &r, nil
}

func (s *passwordResetStore) IncrementAttempts(ctx context.Context, userID int64) (int, error) {
	var attempts int
	err := s.conn.QueryRow(ctx, `
		UPDATE password_resets SET attempts = attempts + 1
		WHERE user_id = $1
		RETURNING attempts`, userID,
	).Scan(&attempts)
	if err != nil {
		return 0, mapError("counting password reset attempt", err)
	}
	return attempts, nil
}

func (s *passwordResetStore) Delete(ctx context.Context, userID int64) error {
	if _, err := s.conn.Exec(ctx, `DELETE FROM password_resets WHERE user_id = $1`, userID); err != nil {
		return mapError("deleting password reset", err)
	}
	return nil
}

func (s *passwordResetStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.conn.Exec(ctx, `DELETE FROM password_resets WHERE expires_at < $1`, before)
	if err != nil {
		return 0, mapError("deleting expired password resets", err)
	}
	return tag.RowsAffected(), nil
}
