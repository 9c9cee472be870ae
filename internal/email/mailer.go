package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SoftwareVerse/userverse/internal/jobs"
)

// Mailer is what the rest of the application uses to send email. With a bus
// it enqueues an email_send job and returns at once, and a refused job is
// returned to the caller. Without a bus it composes and delivers synchronously.
type Mailer struct {
	bus      jobs.Enqueuer
	renderer Renderer
	sender   Sender
}

// NewMailer builds a Mailer. Pass a nil bus (untyped) for direct delivery.
func NewMailer(bus jobs.Enqueuer, renderer Renderer, sender Sender) *Mailer {
	return &Mailer{bus: bus, renderer: renderer, sender: sender}
}

// Send emails an already rendered HTML body.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	return m.dispatch(ctx, to, ReasonRendered, map[string]any{
		"subject":   subject,
		"html_body": htmlBody,
	})
}

// SendTemplate emails the named template rendered with data.
func (m *Mailer) SendTemplate(ctx context.Context, to, subject, templateName string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	return m.dispatch(ctx, to, TemplateReason(templateName), map[string]any{
		"subject":          subject,
		"template_name":    templateName,
		"template_context": data,
	})
}

func (m *Mailer) dispatch(ctx context.Context, to, reason string, content map[string]any) error {
	if m.bus != nil {
		payload := Payload{To: to, Reason: reason, Context: content}
		if err := m.bus.Enqueue(ctx, jobs.TypeEmailSend, payload.Map()); err != nil {
			slog.WarnContext(ctx, "email job not accepted",
				"reason", reason,
				"error", err)
			return fmt.Errorf("enqueueing email: %w", err)
		}
		return nil
	}

	subject, body, err := Compose(m.renderer, reason, content)
	if err != nil {
		return fmt.Errorf("composing email: %w", err)
	}
	return m.sender.Deliver(ctx, to, subject, body, reason)
}
