package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/SoftwareVerse/userverse/core/config"
)

// Transport opens SMTP sessions. Each stage of a session is a separate call
// so a failure can be attributed to connect, authenticate or send.
type Transport interface {
	Dial(ctx context.Context) (Session, error)
}

type Session interface {
	Auth(username, password string) error
	Send(from string, to []string, msg []byte) error
	Close() error
}

type smtpTransport struct {
	cfg config.SMTPConfig
}

// NewSMTPTransport dials cfg.Addr() over implicit TLS, or over plain TCP
// upgraded with STARTTLS when cfg.StartTLS is set.
func NewSMTPTransport(cfg config.SMTPConfig) Transport {
	return &smtpTransport{cfg: cfg}
}

func (t *smtpTransport) Dial(ctx context.Context) (Session, error) {
	timeout := t.cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", t.cfg.Addr())
	if err != nil {
		return nil, err
	}
	// One deadline for the whole exchange; a stalled server surfaces as a timeout.
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return nil, err
	}

	tlsConfig := &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}

	if !t.cfg.StartTLS {
		tlsConn := tls.Client(conn, tlsConfig)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("tls handshake: %w", err)
		}
		conn = tlsConn
	}

	client, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if t.cfg.StartTLS {
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, fmt.Errorf("starttls: %w", err)
		}
	}

	return &smtpSession{client: client, host: t.cfg.Host}, nil
}

type smtpSession struct {
	client *smtp.Client
	host   string
}

func (s *smtpSession) Auth(username, password string) error {
	if ok, _ := s.client.Extension("AUTH"); !ok {
		return fmt.Errorf("smtp server %s does not support AUTH", s.host)
	}
	return s.client.Auth(smtp.PlainAuth("", username, password, s.host))
}

func (s *smtpSession) Send(from string, to []string, msg []byte) error {
	if err := s.client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := s.client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := s.client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	// The message is accepted at this point; a failed QUIT is not a delivery failure.
	_ = s.client.Quit()
	return nil
}

func (s *smtpSession) Close() error {
	return s.client.Close()
}
