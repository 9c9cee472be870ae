package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SoftwareVerse/userverse/core/config"
)

var (
	ErrInvalidToken   = errors.New("security: invalid token")
	ErrWrongTokenType = errors.New("security: wrong token type")
)

type TokenType string

const (
	TokenTypeAccess       TokenType = "access"
	TokenTypeRefresh      TokenType = "refresh"
	TokenTypeVerification TokenType = "verification"
)

type Claims struct {
	jwt.RegisteredClaims
	Type  TokenType `json:"type"`
	Email string    `json:"email"`
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}
	return id, nil
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_token_expiration"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_token_expiration"`
}

// TokenManager issues and verifies HS256 tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttls   map[TokenType]time.Duration
	now    func() time.Time
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttls: map[TokenType]time.Duration{
			TokenTypeAccess:       cfg.AccessTTL,
			TokenTypeRefresh:      cfg.RefreshTTL,
			TokenTypeVerification: cfg.VerificationTTL,
		},
		now: time.Now,
	}
}

func (m *TokenManager) Issue(userID int64, email string, typ TokenType) (string, time.Time, error) {
	ttl, ok := m.ttls[typ]
	if !ok {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrWrongTokenType, typ)
	}

	now := m.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Type:  typ,
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing %s token: %w", typ, err)
	}
	return signed, expiresAt, nil
}

func (m *TokenManager) IssuePair(userID int64, email string) (TokenPair, error) {
	access, accessExp, err := m.Issue(userID, email, TokenTypeAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := m.Issue(userID, email, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Parse verifies the signature, expiry and issuer of token and that it is of type want.
func (m *TokenManager) Parse(token string, want TokenType) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Type != want {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenType, claims.Type, want)
	}
	return &claims, nil
}
