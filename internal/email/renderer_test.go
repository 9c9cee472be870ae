package email_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SoftwareVerse/userverse/internal/email"
)

var _ = Describe("TemplateRenderer", func() {
	var renderer *email.TemplateRenderer

	BeforeEach(func() {
		var err error
		renderer, err = email.NewTemplateRenderer()
		Expect(err).NotTo(HaveOccurred())
	})

	It("renders the password reset code", func() {
		body, err := renderer.Render("reset_user_password.html", map[string]any{
			"user_name": "Ada Lovelace",
			"otp":       "Ab12Cd",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(body).To(ContainSubstring("Ab12Cd"))
		Expect(body).To(ContainSubstring("Ada Lovelace"))
		Expect(body).To(ContainSubstring("<title>Password reset</title>"))
	})

	It("escapes user supplied values", func() {
		body, err := renderer.Render("company_membership.html", map[string]any{
			"company_name": "<script>alert(1)</script>",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(body).NotTo(ContainSubstring("<script>alert"))
	})

	It("renders with missing keys", func() {
		_, err := renderer.Render("user_notification.html", nil)
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("rejects names that are not email templates",
		func(name string) {
			_, err := renderer.Render(name, nil)
			Expect(err).To(MatchError(email.ErrUnknownTemplate))
		},
		Entry("unknown file", "missing.html"),
		Entry("shared layout", "layout.html"),
	)
})
