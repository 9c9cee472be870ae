package email

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics counts delivery attempts and failures.
type Metrics interface {
	Attempt(ctx context.Context, reason string)
	Failure(ctx context.Context, reason string, stage Stage)
}

type otelMetrics struct {
	attempts metric.Int64Counter
	failures metric.Int64Counter
}

// NewOTelMetrics registers the email counters on the global meter provider.
func NewOTelMetrics() (Metrics, error) {
	meter := otel.Meter("userverse/email")

	attempts, err := meter.Int64Counter("email_send_attempts_total",
		metric.WithDescription("SMTP delivery attempts, by email reason"))
	if err != nil {
		return nil, fmt.Errorf("creating attempts counter: %w", err)
	}

	failures, err := meter.Int64Counter("email_send_failures_total",
		metric.WithDescription("Failed SMTP delivery attempts, by email reason and stage"))
	if err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}

	return &otelMetrics{attempts: attempts, failures: failures}, nil
}

func (m *otelMetrics) Attempt(ctx context.Context, reason string) {
	m.attempts.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *otelMetrics) Failure(ctx context.Context, reason string, stage Stage) {
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
		attribute.String("stage", string(stage)),
	))
}

type noopMetrics struct{}

func (noopMetrics) Attempt(context.Context, string)        {}
func (noopMetrics) Failure(context.Context, string, Stage) {}
