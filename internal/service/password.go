package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SoftwareVerse/userverse/internal/model"
	"github.com/SoftwareVerse/userverse/internal/security"
	"github.com/SoftwareVerse/userverse/internal/store"
)

const (
	otpLength      = 6
	otpTTL         = 15 * time.Minute
	otpMaxAttempts = 5
	resetSubject   = "Password Reset OTP"
)

var (
	ErrInvalidOTP      = errors.New("invalid one-time code")
	ErrOTPExpired      = errors.New("one-time code has expired")
	ErrTooManyAttempts = errors.New("too many attempts for this code")
)

// ResetLimiter gates password reset requests. *ratelimit.PasswordResetLimiter implements it.
type ResetLimiter interface {
	Check(ctx context.Context, email, ip string) error
}

type PasswordService interface {
	// RequestReset sends a one-time code to the address. Unknown addresses
	// succeed silently so callers cannot probe for accounts.
	RequestReset(ctx context.Context, email, clientIP string) error
	ResetWithOTP(ctx context.Context, email, otp, newPassword string) error
}

type passwordService struct {
	userStore  store.UserStore
	resetStore store.PasswordResetStore
	txRunner   TxRunner
	limiter    ResetLimiter
	mailer     Mailer
	now        func() time.Time
}

func NewPasswordService(userStore store.UserStore, resetStore store.PasswordResetStore, txRunner TxRunner, limiter ResetLimiter, mailer Mailer) PasswordService {
	return &passwordService{
		userStore:  userStore,
		resetStore: resetStore,
		txRunner:   txRunner,
		limiter:    limiter,
		mailer:     mailer,
		now:        time.Now,
	}
}

func (s *passwordService) RequestReset(ctx context.Context, email, clientIP string) error {
	email = normalizeEmail(email)

	if s.limiter != nil {
		if err := s.limiter.Check(ctx, email, clientIP); err != nil {
			return err
		}
	}

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("getting user: %w", err)
	}

	otp, err := security.GenerateOTP(otpLength)
	if err != nil {
		return fmt.Errorf("generating otp: %w", err)
	}
	hash, err := security.HashPassword(otp)
	if err != nil {
		return err
	}

	now := s.now()
	reset := &model.PasswordReset{
		UserID:    user.ID,
		OTPHash:   hash,
		ExpiresAt: now.Add(otpTTL),
		CreatedAt: now,
	}
	if err := s.resetStore.Upsert(ctx, reset); err != nil {
		return fmt.Errorf("storing password reset: %w", err)
	}

	slog.InfoContext(ctx, "password reset code issued", "user_id", user.ID)
	sendBestEffort(ctx, s.mailer, user.Email, resetSubject, templatePasswordReset, map[string]any{
		"user_name": user.FullName(),
		"otp":       otp,
	})
	return nil
}

func (s *passwordService) ResetWithOTP(ctx context.Context, email, otp, newPassword string) error {
	user, err := s.userStore.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("getting user: %w", err)
	}

	reset, err := s.resetStore.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOTP
		}
		return fmt.Errorf("getting password reset: %w", err)
	}

	if !s.now().Before(reset.ExpiresAt) {
		_ = s.resetStore.Delete(ctx, user.ID)
		return ErrOTPExpired
	}
	if reset.Attempts >= otpMaxAttempts {
		return ErrTooManyAttempts
	}

	if err := security.CheckPassword(reset.OTPHash, otp); err != nil {
		if !errors.Is(err, security.ErrPasswordMismatch) {
			return err
		}
		attempts, incErr := s.resetStore.IncrementAttempts(ctx, user.ID)
		if incErr != nil {
			return fmt.Errorf("recording attempt: %w", incErr)
		}
		slog.WarnContext(ctx, "wrong password reset code", "user_id", user.ID, "attempts", attempts)
		if attempts >= otpMaxAttempts {
			return ErrTooManyAttempts
		}
		return ErrInvalidOTP
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
			return fmt.Errorf("updating password: %w", err)
		}
		if err := stores.PasswordResets().Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("deleting password reset: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "password reset completed", "user_id", user.ID)
	return nil
}
