package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SoftwareVerse/userverse/internal/http/handler"
	"github.com/SoftwareVerse/userverse/internal/model"
	"github.com/SoftwareVerse/userverse/internal/ratelimit"
	"github.com/SoftwareVerse/userverse/internal/security"
	"github.com/SoftwareVerse/userverse/internal/service"
)

func postJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else {
		Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var _ = Describe("AuthHandler", func() {
	var (
		router    *gin.Engine
		auth      *mockAuthService
		passwords *mockPasswordService
	)

	BeforeEach(func() {
		router = gin.New()
		auth = &mockAuthService{}
		passwords = &mockPasswordService{}
		h := handler.NewAuthHandler(auth, passwords)

		router.POST("/user", h.Register)
		router.POST("/user/login", h.Login)
		router.GET("/user/verify", h.Verify)
		router.POST("/user/password-reset/request", h.RequestPasswordReset)
		router.PATCH("/user/password-reset/validate-otp", h.ResetPassword)
		authed := router.Group("", asUser(&model.User{ID: 5}))
		authed.POST("/user/verify/resend", h.ResendVerification)
	})

	Describe("Register", func() {
		It("returns 201 with the user", func() {
			auth.registerFn = func(_ context.Context, in service.RegisterInput) (*model.User, error) {
				return &model.User{ID: 42, Email: in.Email, Status: model.AccountStatusAwaitingVerification}, nil
			}

			w := postJSON(router, http.MethodPost, "/user", map[string]string{
				"email":    "ada@example.com",
				"password": "hunter2222",
			})

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("42"))
			Expect(resp["status"]).To(Equal("awaiting_verification"))
			Expect(resp).NotTo(HaveKey("password_hash"))
		})

		It("returns 400 for a short password", func() {
			w := postJSON(router, http.MethodPost, "/user", map[string]string{
				"email":    "ada@example.com",
				"password": "short",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 409 when the email is taken", func() {
			auth.registerFn = func(context.Context, service.RegisterInput) (*model.User, error) {
				return nil, service.ErrEmailTaken
			}
			w := postJSON(router, http.MethodPost, "/user", map[string]string{
				"email":    "ada@example.com",
				"password": "hunter2222",
			})
			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("returns 500 on unexpected errors", func() {
			auth.registerFn = func(context.Context, service.RegisterInput) (*model.User, error) {
				return nil, errors.New("boom")
			}
			w := postJSON(router, http.MethodPost, "/user", map[string]string{
				"email":    "ada@example.com",
				"password": "hunter2222",
			})
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).NotTo(ContainSubstring("boom"))
		})
	})

	Describe("Login", func() {
		It("returns the token pair", func() {
			exp := time.Now().Add(time.Minute)
			auth.loginFn = func(_ context.Context, email, _ string) (*model.User, security.TokenPair, error) {
				return &model.User{ID: 1, Email: email}, security.TokenPair{AccessToken: "a", AccessExpiresAt: exp, RefreshToken: "r"}, nil
			}

			w := postJSON(router, http.MethodPost, "/user/login", map[string]string{"email": "ada@example.com", "password": "x"})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp struct {
				Token struct {
					TokenType   string `json:"token_type"`
					AccessToken string `json:"access_token"`
				} `json:"token"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Token.TokenType).To(Equal("bearer"))
			Expect(resp.Token.AccessToken).To(Equal("a"))
		})

		It("returns 401 for bad credentials", func() {
			auth.loginFn = func(context.Context, string, string) (*model.User, security.TokenPair, error) {
				return nil, security.TokenPair{}, service.ErrInvalidCredentials
			}
			w := postJSON(router, http.MethodPost, "/user/login", map[string]string{"email": "ada@example.com", "password": "x"})
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Verify", func() {
		It("requires a token", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/verify", nil))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("passes the token through", func() {
			var got string
			auth.verifyFn = func(_ context.Context, token string) (*model.User, error) {
				got = token
				return &model.User{ID: 1, Status: model.AccountStatusActive}, nil
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/verify?token=abc", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(got).To(Equal("abc"))
		})
	})

	It("resends verification for the authenticated user", func() {
		var got int64
		auth.resendFn = func(_ context.Context, userID int64) error {
			got = userID
			return nil
		}
		w := postJSON(router, http.MethodPost, "/user/verify/resend", "")
		Expect(w.Code).To(Equal(http.StatusAccepted))
		Expect(got).To(Equal(int64(5)))
	})

	Describe("password reset", func() {
		It("returns 202 and passes the client IP", func() {
			var ip string
			passwords.requestResetFn = func(_ context.Context, _, clientIP string) error {
				ip = clientIP
				return nil
			}
			w := postJSON(router, http.MethodPost, "/user/password-reset/request", map[string]string{"email": "ada@example.com"})
			Expect(w.Code).To(Equal(http.StatusAccepted))
			Expect(ip).NotTo(BeEmpty())
		})

		It("returns 429 with Retry-After when rate limited", func() {
			passwords.requestResetFn = func(context.Context, string, string) error {
				return &ratelimit.LimitError{Scope: "email", RetryAfter: 90 * time.Second}
			}
			w := postJSON(router, http.MethodPost, "/user/password-reset/request", map[string]string{"email": "ada@example.com"})
			Expect(w.Code).To(Equal(http.StatusTooManyRequests))
			Expect(w.Header().Get("Retry-After")).To(Equal("90"))
		})

		It("validates the OTP shape", func() {
			w := postJSON(router, http.MethodPatch, "/user/password-reset/validate-otp", map[string]string{
				"email": "ada@example.com", "otp": "12", "new_password": "new-password",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps an invalid OTP to 400", func() {
			passwords.resetFn = func(context.Context, string, string, string) error { return service.ErrInvalidOTP }
			w := postJSON(router, http.MethodPatch, "/user/password-reset/validate-otp", map[string]string{
				"email": "ada@example.com", "otp": "AB12cd", "new_password": "new-password",
			})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
