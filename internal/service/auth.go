package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/SoftwareVerse/userverse/common/id"
	"github.com/SoftwareVerse/userverse/internal/model"
	"github.com/SoftwareVerse/userverse/internal/security"
	"github.com/SoftwareVerse/userverse/internal/store"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is not allowed to log in")
	ErrAlreadyVerified    = errors.New("account is already verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type RegisterInput struct {
	Email       string
	Password    string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, security.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (security.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*model.User, error)
	Verify(ctx context.Context, token string) (*model.User, error)
	ResendVerification(ctx context.Context, userID int64) error
}

type authService struct {
	userStore store.UserStore
	tokens    *security.TokenManager
	mailer    Mailer
	baseURL   string
}

func NewAuthService(userStore store.UserStore, tokens *security.TokenManager, mailer Mailer, baseURL string) AuthService {
	return &authService{
		userStore: userStore,
		tokens:    tokens,
		mailer:    mailer,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := normalizeEmail(in.Email)

	if _, err := s.userStore.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking email availability: %w", err)
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           id.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
		Status:       model.AccountStatusAwaitingVerification,
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		slog.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	s.sendVerification(ctx, user, templateRegistration, "create")
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, security.TokenPair, error) {
	user, err := s.userStore.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, security.TokenPair{}, ErrInvalidCredentials
		}
		return nil, security.TokenPair{}, fmt.Errorf("getting user: %w", err)
	}

	if err := security.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return nil, security.TokenPair{}, ErrInvalidCredentials
		}
		return nil, security.TokenPair{}, err
	}

	if !user.Status.CanLogIn() {
		slog.InfoContext(ctx, "login refused for account status", "user_id", user.ID, "status", user.Status)
		return nil, security.TokenPair{}, ErrAccountDisabled
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, security.TokenPair{}, fmt.Errorf("issuing tokens: %w", err)
	}
	return user, pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (security.TokenPair, error) {
	user, err := s.userFromToken(ctx, refreshToken, security.TokenTypeRefresh)
	if err != nil {
		return security.TokenPair{}, err
	}
	if !user.Status.CanLogIn() {
		return security.TokenPair{}, ErrAccountDisabled
	}
	return s.tokens.IssuePair(user.ID, user.Email)
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	user, err := s.userFromToken(ctx, accessToken, security.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	if !user.Status.CanLogIn() {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func (s *authService) Verify(ctx context.Context, token string) (*model.User, error) {
	user, err := s.userFromToken(ctx, token, security.TokenTypeVerification)
	if err != nil {
		return nil, err
	}

	switch user.Status {
	case model.AccountStatusActive:
		return nil, ErrAlreadyVerified
	case model.AccountStatusAwaitingVerification:
	default:
		return nil, ErrAccountDisabled
	}

	if err := s.userStore.UpdateStatus(ctx, user.ID, model.AccountStatusActive); err != nil {
		return nil, fmt.Errorf("activating user: %w", err)
	}
	user.Status = model.AccountStatusActive

	slog.InfoContext(ctx, "user verified", "user_id", user.ID)
	sendBestEffort(ctx, s.mailer, user.Email, "Account Verified", templateVerificationSuccess, map[string]any{
		"user_name": user.FullName(),
	})
	return user, nil
}

func (s *authService) ResendVerification(ctx context.Context, userID int64) error {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("getting user: %w", err)
	}
	if user.Status != model.AccountStatusAwaitingVerification {
		return ErrAlreadyVerified
	}

	s.sendVerification(ctx, user, templateNotification, "resend")
	return nil
}

func (s *authService) userFromToken(ctx context.Context, token string, typ security.TokenType) (*model.User, error) {
	claims, err := s.tokens.Parse(token, typ)
	if err != nil {
		slog.DebugContext(ctx, "token rejected", "type", typ, "error", err)
		return nil, ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *authService) sendVerification(ctx context.Context, user *model.User, templateName, mode string) {
	token, _, err := s.tokens.Issue(user.ID, user.Email, security.TokenTypeVerification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue verification token", "error", err, "user_id", user.ID)
		return
	}

	link := s.baseURL + "/user/verify?token=" + url.QueryEscape(token)
	sendBestEffort(ctx, s.mailer, user.Email, "User Account Registration", templateName, map[string]any{
		"user_name":         user.FullName(),
		"verification_link": link,
		"mode":              mode,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func logEmailFailure(ctx context.Context, templateName string, err error) {
	slog.ErrorContext(ctx, "failed to dispatch email", "template", templateName, "error", err)
}
