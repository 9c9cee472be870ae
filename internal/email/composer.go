package email

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ReasonRendered marks a job whose context already carries subject and html_body.
	ReasonRendered = "rendered"

	templateReasonPrefix = "template:"
)

var ErrMissingContent = errors.New("email: missing email content")

// TemplateReason is the reason tag for an email rendered from the named template.
func TemplateReason(name string) string {
	return templateReasonPrefix + name
}

// Compose resolves the subject and HTML body for reason.
//
// Reason "rendered" passes context["subject"] and context["html_body"] through.
// Reason "template:<name>", or any other reason with context["template_name"]
// set, renders that template with context["template_context"].
func Compose(r Renderer, reason string, data map[string]any) (subject, htmlBody string, err error) {
	if reason == ReasonRendered {
		s, okSubject := data["subject"].(string)
		body, okBody := data["html_body"].(string)
		if !okSubject || !okBody {
			return "", "", fmt.Errorf("%w: rendered email requires subject and html_body", ErrMissingContent)
		}
		return s, body, nil
	}

	name, _ := data["template_name"].(string)
	if after, ok := strings.CutPrefix(reason, templateReasonPrefix); ok && after != "" {
		name = after
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: unknown reason %q and no template provided", ErrMissingContent, reason)
	}

	templateData, _ := data["template_context"].(map[string]any)
	subject, _ = data["subject"].(string)

	htmlBody, err = r.Render(name, templateData)
	if err != nil {
		return "", "", err
	}
	return subject, htmlBody, nil
}
