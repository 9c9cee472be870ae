package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are attached to every record logged with a context that carries them.
// Request handlers set UserID/CompanyID/RequestID; job workers set JobType/EmailReason.
type LogFields struct {
	UserID      *int64  // Authenticated user
	CompanyID   *int64  // Company the request operates on
	RequestID   *string // X-Request-Id of the inbound HTTP request
	JobType     *string // Background job type, e.g. "email_send"
	EmailReason *string // Email reason tag, e.g. "rendered" or "template:reset_user_password.html"
	Component   string  // Component name, e.g. "userverse.jobs.worker"
}

// WithLogFields merges fields into ctx; non-nil/non-empty values win over existing ones.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields returns the fields stored in ctx, or zero LogFields.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.CompanyID != nil {
		result.CompanyID = next.CompanyID
	}
	if next.RequestID != nil {
		result.RequestID = next.RequestID
	}
	if next.JobType != nil {
		result.JobType = next.JobType
	}
	if next.EmailReason != nil {
		result.EmailReason = next.EmailReason
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr returns a pointer to v, for inline LogFields literals.
func Ptr[T any](v T) *T {
	return &v
}
