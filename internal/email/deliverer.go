package email

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/SoftwareVerse/userverse/common/logger"
	"github.com/SoftwareVerse/userverse/core/config"
)

const maxBackoff = 10 * time.Second

// Sender delivers one email. Deliverer is the production implementation.
type Sender interface {
	Deliver(ctx context.Context, to, subject, htmlBody, reason string) error
}

// Deliverer sends email over SMTP with bounded retries. Without SMTP
// configuration, or when the SMTP host does not resolve, it renders the email
// as plain text to its output instead and reports success.
type Deliverer struct {
	cfg       config.SMTPConfig
	transport Transport
	metrics   Metrics
	out       io.Writer
	sleep     func(ctx context.Context, d time.Duration) error
}

type DelivererOption func(*Deliverer)

func WithTransport(t Transport) DelivererOption {
	return func(d *Deliverer) { d.transport = t }
}

func WithMetrics(m Metrics) DelivererOption {
	return func(d *Deliverer) { d.metrics = m }
}

// WithOutput sets where plain-text fallbacks are written. Defaults to stdout.
func WithOutput(w io.Writer) DelivererOption {
	return func(d *Deliverer) { d.out = w }
}

// WithSleep replaces the backoff wait, mainly for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) DelivererOption {
	return func(d *Deliverer) { d.sleep = fn }
}

func NewDeliverer(cfg config.SMTPConfig, opts ...DelivererOption) *Deliverer {
	d := &Deliverer{
		cfg:     cfg,
		metrics: noopMetrics{},
		out:     os.Stdout,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.transport == nil {
		d.transport = NewSMTPTransport(cfg)
	}
	return d
}

func (d *Deliverer) Deliver(ctx context.Context, to, subject, htmlBody, reason string) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		EmailReason: logger.Ptr(reason),
		Component:   "userverse.email.deliverer",
	})

	if !d.cfg.Enabled() {
		slog.InfoContext(ctx, "smtp not configured, rendering email as plain text")
		renderPlainText(d.out, "Email config not available. Showing plain text:", to, subject, htmlBody)
		return nil
	}

	msg, err := buildMessage(d.cfg.Sender(), to, subject, htmlBody)
	if err != nil {
		return fmt.Errorf("building message: %w", err)
	}

	maxAttempts := max(d.cfg.MaxRetries, 1)
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		d.metrics.Attempt(ctx, reason)

		out := d.attempt(ctx, to, msg)
		if out.kind != outcomeSent {
			d.metrics.Failure(ctx, reason, out.stage)
		}

		switch out.kind {
		case outcomeSent:
			slog.InfoContext(ctx, "email sent", "attempt", attempt)
			return nil

		case outcomeDegraded:
			slog.WarnContext(ctx, "smtp host resolution failed, rendering email as plain text",
				"smtp_addr", d.cfg.Addr(),
				"error", out.err)
			renderPlainText(d.out,
				fmt.Sprintf("Unable to reach SMTP host %s. Showing plain text:", d.cfg.Host),
				to, subject, htmlBody)
			return nil

		case outcomeFatal:
			slog.ErrorContext(ctx, "email delivery failed",
				"stage", out.stage,
				"attempt", attempt,
				"error", out.err)
			return fmt.Errorf("smtp %s: %w", out.stage, out.err)

		case outcomeTransient:
			lastErr = fmt.Errorf("smtp %s: %w", out.stage, out.err)
			slog.WarnContext(ctx, "email delivery attempt failed",
				"stage", out.stage,
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"error", out.err)

			if attempt < maxAttempts {
				if err := d.sleep(ctx, backoff(attempt)); err != nil {
					return err
				}
			}
		}
	}

	slog.ErrorContext(ctx, "email delivery gave up", "attempts", maxAttempts, "error", lastErr)
	return lastErr
}

func (d *Deliverer) attempt(ctx context.Context, to string, msg []byte) outcome {
	session, err := d.transport.Dial(ctx)
	if err != nil {
		return d.failed(ctx, StageConnect, err)
	}
	defer session.Close()

	if err := session.Auth(d.cfg.Username, d.cfg.Password); err != nil {
		return d.failed(ctx, StageAuthenticate, err)
	}
	if err := session.Send(d.cfg.Sender(), []string{to}, msg); err != nil {
		return d.failed(ctx, StageSend, err)
	}
	return sent()
}

// failed classifies err, except that a cancelled or expired ctx always ends
// delivery regardless of what the transport reported.
func (d *Deliverer) failed(ctx context.Context, stage Stage, err error) outcome {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome{kind: outcomeFatal, stage: stage, err: fmt.Errorf("%w: %w", ctxErr, err)}
	}
	return classify(stage, err)
}

// backoff is min(10s, 2^(attempt-1) s).
func backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 5 {
		return maxBackoff
	}
	return min(maxBackoff, time.Duration(1<<(attempt-1))*time.Second)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
