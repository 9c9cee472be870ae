package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SoftwareVerse/userverse/core/config"
)

// PasswordResetLimiter applies the per-email, per-IP and per-pair limits on
// password reset requests.
type PasswordResetLimiter struct {
	limiter Limiter
	cfg     config.RateLimitConfig
}

func NewPasswordResetLimiter(limiter Limiter, cfg config.RateLimitConfig) *PasswordResetLimiter {
	return &PasswordResetLimiter{limiter: limiter, cfg: cfg}
}

// Check records one reset request. It returns a *LimitError naming the first
// limit that rejected it.
func (l *PasswordResetLimiter) Check(ctx context.Context, email, ip string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if ip == "" {
		ip = "unknown"
	}

	checks := []struct {
		scope string
		key   string
		limit int
	}{
		{"email", "password_reset:email:" + email, l.cfg.ResetPerEmail},
		{"ip", "password_reset:ip:" + ip, l.cfg.ResetPerIP},
		{"pair", "password_reset:pair:" + ip + ":" + email, l.cfg.ResetPerPair},
	}

	for _, c := range checks {
		res, err := l.limiter.Hit(ctx, c.key, c.limit, l.cfg.ResetWindow)
		if err != nil {
			return fmt.Errorf("checking %s limit: %w", c.scope, err)
		}
		if !res.Allowed {
			slog.WarnContext(ctx, "password reset rate limit hit",
				"scope", c.scope,
				"client_ip", ip,
				"retry_after", res.RetryAfter)
			return &LimitError{Scope: c.scope, RetryAfter: res.RetryAfter}
		}
	}
	return nil
}
