package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SoftwareVerse/userverse/common/logger"
	"github.com/SoftwareVerse/userverse/internal/jobs"
)

// NewJobHandler returns the handler for jobs.TypeEmailSend. SMTP I/O runs on
// its own goroutine; the handler returns when delivery finishes or ctx ends.
func NewJobHandler(renderer Renderer, sender Sender) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		payload, err := DecodePayload(job.Payload)
		if err != nil {
			return err
		}

		ctx = logger.WithLogFields(ctx, logger.LogFields{
			EmailReason: logger.Ptr(payload.Reason),
		})

		subject, body, err := Compose(renderer, payload.Reason, payload.Context)
		if err != nil {
			return fmt.Errorf("composing email: %w", err)
		}

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- fmt.Errorf("panic during delivery: %v", r)
				}
			}()
			done <- sender.Deliver(ctx, payload.To, subject, body, payload.Reason)
		}()

		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("delivering email: %w", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}

		slog.DebugContext(ctx, "email job processed", "subject", subject)
		return nil
	}
}
