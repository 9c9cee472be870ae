package email

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Payload is the body of an email_send job.
type Payload struct {
	To      string         `json:"to" validate:"required,email"`
	Reason  string         `json:"reason" validate:"required"`
	Context map[string]any `json:"context"`
}

// Map converts p to the generic payload a job carries.
func (p Payload) Map() map[string]any {
	ctx := p.Context
	if ctx == nil {
		ctx = map[string]any{}
	}
	return map[string]any{
		"to":      p.To,
		"reason":  p.Reason,
		"context": ctx,
	}
}

// DecodePayload reads a job payload strictly: unknown keys and invalid
// addresses are errors.
func DecodePayload(raw map[string]any) (Payload, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return Payload{}, fmt.Errorf("encoding email payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("decoding email payload: %w", err)
	}
	if err := validate.Struct(p); err != nil {
		return Payload{}, fmt.Errorf("invalid email payload: %w", err)
	}
	if p.Context == nil {
		p.Context = map[string]any{}
	}
	return p, nil
}
