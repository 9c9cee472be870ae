package service

import "context"

// Mailer sends templated email. *email.Mailer implements it.
type Mailer interface {
	SendTemplate(ctx context.Context, to, subject, templateName string, data map[string]any) error
}

const (
	templateRegistration        = "user_registration.html"
	templateNotification        = "user_notification.html"
	templateVerificationSuccess = "user_verification_success.html"
	templatePasswordReset       = "reset_user_password.html"
	templateCompanyMembership   = "company_membership.html"
)

// sendBestEffort hands an email to the mailer and logs instead of failing the
// calling operation.
func sendBestEffort(ctx context.Context, m Mailer, to, subject, templateName string, data map[string]any) {
	if m == nil {
		return
	}
	if err := m.SendTemplate(ctx, to, subject, templateName, data); err != nil {
		logEmailFailure(ctx, templateName, err)
	}
}
