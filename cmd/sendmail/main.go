package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SoftwareVerse/userverse/common/logger"
	"github.com/SoftwareVerse/userverse/core/config"
	"github.com/SoftwareVerse/userverse/internal/email"
)

// sendmail delivers one email synchronously, without a job bus. Without SMTP
// settings the message is printed as plain text instead.
func main() {
	to := flag.String("to", "", "Recipient address (required)")
	subject := flag.String("subject", "", "Subject line (required)")
	tmpl := flag.String("template", "", "Template name, e.g. user_registration.html")
	dataJSON := flag.String("data", "{}", "Template context as a JSON object")
	htmlPath := flag.String("html", "", "Path to a pre-rendered HTML body, or - for stdin")
	flag.Parse()

	if *to == "" || *subject == "" || (*tmpl == "") == (*htmlPath == "") {
		fmt.Fprintln(os.Stderr, "usage: sendmail -to ADDR -subject TEXT (-template NAME [-data JSON] | -html FILE)")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load email templates", "error", err)
		os.Exit(1)
	}
	mailer := email.NewMailer(nil, renderer, email.NewDeliverer(cfg.SMTP))

	if *tmpl != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(*dataJSON), &data); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -data: %v\n", err)
			os.Exit(2)
		}
		err = mailer.SendTemplate(ctx, *to, *subject, *tmpl, data)
	} else {
		var body string
		body, err = readBody(*htmlPath)
		if err == nil {
			err = mailer.Send(ctx, *to, *subject, body)
		}
	}

	if err != nil {
		slog.ErrorContext(ctx, "email not delivered", "to", *to, "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "email delivered", "to", *to)
}

func readBody(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading html body: %w", err)
	}
	return string(b), nil
}
