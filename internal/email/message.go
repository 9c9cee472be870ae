package email

import (
	"bytes"
	"fmt"

	"github.com/wneessen/go-mail"
)

const plainTextNotice = "This email requires an HTML-compatible client."

// buildMessage renders a multipart/alternative message: a short plain-text
// part for clients without HTML support, and the HTML body.
func buildMessage(from, to, subject, htmlBody string) ([]byte, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, plainTextNotice)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing message: %w", err)
	}
	return buf.Bytes(), nil
}
