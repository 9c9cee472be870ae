package service

import (
	"github.com/SoftwareVerse/userverse/internal/security"
	"github.com/SoftwareVerse/userverse/internal/store"
)

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	tokens   *security.TokenManager
	mailer   Mailer
	limiter  ResetLimiter
	baseURL  string
}

func NewServices(stores *store.Stores, txRunner TxRunner, tokens *security.TokenManager, mailer Mailer, limiter ResetLimiter, baseURL string) *Services {
	return &Services{
		stores:   stores,
		txRunner: txRunner,
		tokens:   tokens,
		mailer:   mailer,
		limiter:  limiter,
		baseURL:  baseURL,
	}
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.tokens, s.mailer, s.baseURL)
}

func (s *Services) Passwords() PasswordService {
	return NewPasswordService(s.stores.Users(), s.stores.PasswordResets(), s.txRunner, s.limiter, s.mailer)
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users(), s.stores.Companies())
}

func (s *Services) Companies() CompanyService {
	return NewCompanyService(s.stores, s.txRunner, s.mailer)
}
