package email_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SoftwareVerse/userverse/internal/email"
	"github.com/SoftwareVerse/userverse/internal/jobs"
)

var _ = Describe("Email job handler", func() {
	var (
		sender   *mockSender
		renderer *mockRenderer
		handler  jobs.Handler
		ctx      context.Context
	)

	BeforeEach(func() {
		sender = &mockSender{}
		renderer = &mockRenderer{}
		handler = email.NewJobHandler(renderer, sender)
		ctx = context.Background()
	})

	It("delivers a rendered email unchanged", func() {
		job := jobs.NewJob(jobs.TypeEmailSend, map[string]any{
			"to":      "a@b.com",
			"reason":  "rendered",
			"context": map[string]any{"subject": "Hi", "html_body": "<p>Hello</p>"},
		}, nil)

		Expect(handler(ctx, job)).To(Succeed())
		Expect(sender.Calls()).To(Equal([]delivery{
			{to: "a@b.com", subject: "Hi", body: "<p>Hello</p>", reason: "rendered"},
		}))
	})

	It("renders the template named by the reason", func() {
		renderer.renderFn = func(name string, data map[string]any) (string, error) {
			Expect(name).To(Equal("user_notification.html"))
			Expect(data).To(HaveKeyWithValue("name", "User"))
			return "<p>Rendered</p>", nil
		}
		job := jobs.NewJob(jobs.TypeEmailSend, map[string]any{
			"to":     "user@example.com",
			"reason": "template:user_notification.html",
			"context": map[string]any{
				"subject":          "Welcome",
				"template_name":    "user_notification.html",
				"template_context": map[string]any{"name": "User"},
			},
		}, nil)

		Expect(handler(ctx, job)).To(Succeed())
		Expect(sender.Calls()).To(ConsistOf(delivery{
			to: "user@example.com", subject: "Welcome", body: "<p>Rendered</p>", reason: "template:user_notification.html",
		}))
	})

	DescribeTable("rejects malformed payloads without delivering",
		func(payload map[string]any) {
			err := handler(ctx, jobs.NewJob(jobs.TypeEmailSend, payload, nil))
			Expect(err).To(HaveOccurred())
			Expect(sender.Calls()).To(BeEmpty())
		},
		Entry("missing recipient", map[string]any{"reason": "rendered"}),
		Entry("invalid recipient", map[string]any{"to": "not-an-address", "reason": "rendered"}),
		Entry("missing reason", map[string]any{"to": "a@b.com"}),
		Entry("unknown field", map[string]any{"to": "a@b.com", "reason": "rendered", "cc": "c@d.com"}),
		Entry("rendered without body", map[string]any{
			"to": "a@b.com", "reason": "rendered", "context": map[string]any{"subject": "Hi"},
		}),
	)

	It("surfaces delivery errors", func() {
		sender.deliverFn = func(context.Context, string, string, string, string) error {
			return errors.New("smtp send: 554 rejected")
		}
		job := jobs.NewJob(jobs.TypeEmailSend, map[string]any{
			"to": "a@b.com", "reason": "rendered",
			"context": map[string]any{"subject": "Hi", "html_body": "<p>Hello</p>"},
		}, nil)

		Expect(handler(ctx, job)).To(MatchError(ContainSubstring("554 rejected")))
	})

	It("returns when the context ends before delivery does", func() {
		release := make(chan struct{})
		defer close(release)
		sender.deliverFn = func(context.Context, string, string, string, string) error {
			<-release
			return nil
		}
		cctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		job := jobs.NewJob(jobs.TypeEmailSend, map[string]any{
			"to": "a@b.com", "reason": "rendered",
			"context": map[string]any{"subject": "Hi", "html_body": "<p>Hello</p>"},
		}, nil)

		Expect(handler(cctx, job)).To(MatchError(context.DeadlineExceeded))
	})

	It("delivers through the bus end to end", func() {
		bus := jobs.NewBus(jobs.NewMemoryStore())
		bus.Register(jobs.TypeEmailSend, handler)
		go func() { _ = bus.RunWorker(ctx) }()

		payload := email.Payload{
			To:      "a@b.com",
			Reason:  email.ReasonRendered,
			Context: map[string]any{"subject": "Hi", "html_body": "<p>Hello</p>"},
		}
		Expect(bus.Enqueue(ctx, jobs.TypeEmailSend, payload.Map())).To(Succeed())
		Expect(bus.Join(ctx)).To(Succeed())
		bus.Stop()

		Expect(sender.Calls()).To(ConsistOf(delivery{
			to: "a@b.com", subject: "Hi", body: "<p>Hello</p>", reason: "rendered",
		}))
	})
})

var _ = Describe("Compose", func() {
	renderer := &mockRenderer{}

	It("prefers the template named in the reason", func() {
		subject, body, err := email.Compose(renderer, "template:reset_user_password.html", map[string]any{
			"subject":       "Password Reset OTP",
			"template_name": "other.html",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(subject).To(Equal("Password Reset OTP"))
		Expect(body).To(Equal("<p>reset_user_password.html</p>"))
	})

	It("falls back to template_name for other reasons", func() {
		_, body, err := email.Compose(renderer, "welcome", map[string]any{"template_name": "user_registration.html"})
		Expect(err).NotTo(HaveOccurred())
		Expect(body).To(Equal("<p>user_registration.html</p>"))
	})

	It("uses template_name when the reason has an empty template", func() {
		_, body, err := email.Compose(renderer, "template:", map[string]any{"template_name": "user_registration.html"})
		Expect(err).NotTo(HaveOccurred())
		Expect(body).To(Equal("<p>user_registration.html</p>"))
	})

	It("fails when no template can be resolved", func() {
		_, _, err := email.Compose(renderer, "welcome", map[string]any{})
		Expect(err).To(MatchError(email.ErrMissingContent))
	})

	It("fails when a rendered email lacks its body", func() {
		_, _, err := email.Compose(renderer, email.ReasonRendered, map[string]any{"subject": "Hi"})
		Expect(err).To(MatchError(email.ErrMissingContent))
	})
})
