package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SoftwareVerse/userverse/internal/http/handler"
	"github.com/SoftwareVerse/userverse/internal/model"
	"github.com/SoftwareVerse/userverse/internal/service"
)

var _ = Describe("CompanyHandler", func() {
	var (
		router *gin.Engine
		svc    *mockCompanyService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockCompanyService{}
		h := handler.NewCompanyHandler(svc)

		rg := router.Group("/company", asUser(&model.User{ID: 1}))
		rg.POST("", h.Create)
		rg.GET("/:company_id", h.Get)
		rg.POST("/:company_id/users", h.AddMember)
		rg.DELETE("/:company_id/users/:user_id", h.RemoveMember)
		rg.GET("/:company_id/roles", h.ListRoles)
		rg.DELETE("/:company_id/roles/:role_name", h.DeleteRole)
	})

	It("creates a company for the acting user", func() {
		svc.createFn = func(_ context.Context, actorID int64, in service.CompanyInput) (*model.Company, error) {
			return &model.Company{ID: 9, Name: in.Name, Email: in.Email, CreatedBy: actorID}, nil
		}

		w := postJSON(router, http.MethodPost, "/company", map[string]string{"name": "Acme", "email": "hello@acme.test"})

		Expect(w.Code).To(Equal(http.StatusCreated))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["created_by"]).To(Equal("1"))
	})

	It("rejects a non-numeric company id", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/company/acme", nil))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 when the user is not a member", func() {
		svc.getFn = func(context.Context, int64, int64) (*model.Company, error) {
			return nil, service.ErrCompanyNotFound
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/company/9", nil))
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 403 when a viewer adds a member", func() {
		svc.addMemberFn = func(context.Context, int64, int64, string, string) (*model.Member, error) {
			return nil, service.ErrForbidden
		}
		w := postJSON(router, http.MethodPost, "/company/9/users", map[string]string{"email": "grace@example.com"})
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("returns 422 when removing the last administrator", func() {
		svc.removeMemberFn = func(context.Context, int64, int64, int64) error {
			return service.ErrLastAdministrator
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/company/9/users/1", nil))
		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
	})

	It("lists roles with paging", func() {
		var gotPage model.Page
		svc.listRolesFn = func(_ context.Context, _, _ int64, page model.Page) (model.PageResult[model.Role], error) {
			gotPage = page
			return model.NewPageResult(model.DefaultRoles, 2, model.Page{Limit: 5, Offset: 0}), nil
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/company/9/roles?limit=5", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(gotPage.Limit).To(Equal(5))
		var resp struct {
			Records []map[string]any `json:"records"`
			Total   int              `json:"total"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Total).To(Equal(2))
		Expect(resp.Records[0]["name"]).To(Equal(model.RoleAdministrator))
	})

	It("rejects a page limit above the maximum", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/company/9/roles?limit=500", nil))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 204 after deleting a role", func() {
		svc.deleteRoleFn = func(_ context.Context, _, _ int64, name string) error {
			Expect(name).To(Equal("Auditor"))
			return nil
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/company/9/roles/Auditor", nil))
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})
})
