package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SoftwareVerse/userverse/internal/model"
	"github.com/SoftwareVerse/userverse/internal/service"
	"github.com/SoftwareVerse/userverse/internal/store"
)

var _ = Describe("CompanyService", func() {
	const (
		adminID  int64 = 1
		viewerID int64 = 2
		outsider int64 = 3
		company  int64 = 100
	)

	var (
		ctx    context.Context
		stores *mockStores
		tx     *mockTxRunner
		mailer *mockMailer
		svc    service.CompanyService
		roles  map[int64]string
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		tx = &mockTxRunner{stores: stores}
		mailer = &mockMailer{}
		roles = map[int64]string{adminID: model.RoleAdministrator, viewerID: model.RoleViewer}

		stores.members.getFn = func(_ context.Context, companyID, userID int64) (*model.Member, error) {
			role, ok := roles[userID]
			if !ok || companyID != company {
				return nil, store.ErrNotFound
			}
			return &model.Member{CompanyID: companyID, UserID: userID, RoleName: role}, nil
		}
		stores.members.countByRoleFn = func(_ context.Context, _ int64, roleName string) (int, error) {
			n := 0
			for _, r := range roles {
				if r == roleName {
					n++
				}
			}
			return n, nil
		}
		stores.companies.getByIDFn = func(_ context.Context, id int64) (*model.Company, error) {
			if id != company {
				return nil, store.ErrNotFound
			}
			return &model.Company{ID: company, Name: "Acme", Email: "hello@acme.test"}, nil
		}

		svc = service.NewCompanyService(stores, tx, mailer)
	})

	Describe("Create", func() {
		It("creates the company, default roles and the creator membership in one transaction", func() {
			created, err := svc.Create(ctx, adminID, service.CompanyInput{Name: "Acme", Email: " Hello@Acme.test "})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeZero())
			Expect(created.Email).To(Equal("hello@acme.test"))
			Expect(created.CreatedBy).To(Equal(adminID))

			Expect(tx.calls).To(Equal(1))
			Expect(stores.roles.created).To(HaveLen(2))
			Expect(stores.roles.created[0].Name).To(Equal(model.RoleAdministrator))
			Expect(stores.roles.created[1].Name).To(Equal(model.RoleViewer))
			Expect(stores.roles.created[0].CompanyID).To(Equal(created.ID))

			Expect(stores.members.added).To(HaveLen(1))
			Expect(stores.members.added[0].UserID).To(Equal(adminID))
			Expect(stores.members.added[0].RoleName).To(Equal(model.RoleAdministrator))
		})

		It("rejects a taken company email", func() {
			stores.companies.getByEmailFn = func(context.Context, string) (*model.Company, error) {
				return &model.Company{ID: 9}, nil
			}

			_, err := svc.Create(ctx, adminID, service.CompanyInput{Name: "Acme", Email: "hello@acme.test"})
			Expect(err).To(MatchError(service.ErrCompanyEmailTaken))
			Expect(tx.calls).To(BeZero())
		})
	})

	Describe("Get", func() {
		It("returns the company to members", func() {
			c, err := svc.Get(ctx, viewerID, company)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Acme"))
		})

		It("hides the company from non-members", func() {
			_, err := svc.Get(ctx, outsider, company)
			Expect(err).To(MatchError(service.ErrCompanyNotFound))
		})
	})

	Describe("Update", func() {
		It("lets administrators change fields", func() {
			name := "Acme Corp"
			var stored *model.Company
			stores.companies.updateFn = func(_ context.Context, c *model.Company) error {
				stored = c
				return nil
			}

			c, err := svc.Update(ctx, adminID, company, service.UpdateCompanyInput{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Acme Corp"))
			Expect(stored.Email).To(Equal("hello@acme.test"))
		})

		It("forbids viewers", func() {
			_, err := svc.Update(ctx, viewerID, company, service.UpdateCompanyInput{})
			Expect(err).To(MatchError(service.ErrForbidden))
		})
	})

	Describe("AddMember", func() {
		BeforeEach(func() {
			stores.users.getByEmailFn = func(_ context.Context, email string) (*model.User, error) {
				if email == "grace@example.com" {
					first := "Grace"
					return &model.User{ID: 4, Email: email, FirstName: &first}, nil
				}
				return nil, store.ErrNotFound
			}
			stores.users.getByIDFn = func(_ context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id, Email: "admin@acme.test"}, nil
			}
		})

		It("adds the user as a viewer by default and emails them", func() {
			member, err := svc.AddMember(ctx, adminID, company, "Grace@Example.com", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(member.UserID).To(Equal(int64(4)))
			Expect(member.RoleName).To(Equal(model.RoleViewer))

			sent := mailer.Sent()
			Expect(sent).To(HaveLen(1))
			Expect(sent[0].To).To(Equal("grace@example.com"))
			Expect(sent[0].Template).To(Equal("company_membership.html"))
			Expect(sent[0].Data).To(HaveKeyWithValue("company_name", "Acme"))
			Expect(sent[0].Data).To(HaveKeyWithValue("invited_by", "admin@acme.test"))
		})

		It("returns ErrUserNotFound for unknown users", func() {
			_, err := svc.AddMember(ctx, adminID, company, "nobody@example.com", "")
			Expect(err).To(MatchError(service.ErrUserNotFound))
		})

		It("returns ErrRoleNotFound for unknown roles", func() {
			stores.roles.getFn = func(context.Context, int64, string) (*model.Role, error) {
				return nil, store.ErrNotFound
			}
			_, err := svc.AddMember(ctx, adminID, company, "grace@example.com", "Auditor")
			Expect(err).To(MatchError(service.ErrRoleNotFound))
		})

		It("maps duplicates to ErrMemberExists", func() {
			stores.members.addFn = func(context.Context, *model.Member) error { return store.ErrConflict }
			_, err := svc.AddMember(ctx, adminID, company, "grace@example.com", "")
			Expect(err).To(MatchError(service.ErrMemberExists))
			Expect(mailer.Sent()).To(BeEmpty())
		})

		It("forbids viewers", func() {
			_, err := svc.AddMember(ctx, viewerID, company, "grace@example.com", "")
			Expect(err).To(MatchError(service.ErrForbidden))
		})
	})

	Describe("RemoveMember", func() {
		It("removes a viewer", func() {
			Expect(svc.RemoveMember(ctx, adminID, company, viewerID)).To(Succeed())
			Expect(stores.members.removed).To(ConsistOf(viewerID))
		})

		It("keeps the last administrator", func() {
			Expect(svc.RemoveMember(ctx, adminID, company, adminID)).To(MatchError(service.ErrLastAdministrator))
			Expect(stores.members.removed).To(BeEmpty())
		})

		It("allows removing an administrator when another remains", func() {
			roles[5] = model.RoleAdministrator
			Expect(svc.RemoveMember(ctx, adminID, company, 5)).To(Succeed())
		})

		It("returns ErrMemberNotFound for non-members", func() {
			Expect(svc.RemoveMember(ctx, adminID, company, outsider)).To(MatchError(service.ErrMemberNotFound))
		})
	})

	Describe("roles", func() {
		It("refuses to change default roles", func() {
			_, err := svc.UpdateRole(ctx, adminID, company, model.RoleViewer, "changed")
			Expect(err).To(MatchError(service.ErrDefaultRole))
			Expect(svc.DeleteRole(ctx, adminID, company, model.RoleAdministrator)).To(MatchError(service.ErrDefaultRole))
		})

		It("refuses to delete a role that is assigned", func() {
			roles[6] = "Auditor"
			Expect(svc.DeleteRole(ctx, adminID, company, "Auditor")).To(MatchError(service.ErrRoleInUse))
		})

		It("deletes an unused custom role", func() {
			var deleted string
			stores.roles.deleteFn = func(_ context.Context, _ int64, name string) error {
				deleted = name
				return nil
			}
			Expect(svc.DeleteRole(ctx, adminID, company, "Auditor")).To(Succeed())
			Expect(deleted).To(Equal("Auditor"))
		})

		It("maps duplicate role names to ErrRoleExists", func() {
			stores.roles.createFn = func(context.Context, *model.Role) error { return store.ErrConflict }
			_, err := svc.CreateRole(ctx, adminID, company, "Auditor", "Reads the books")
			Expect(err).To(MatchError(service.ErrRoleExists))
		})

		It("lists roles for members with a normalized page", func() {
			var gotPage model.Page
			stores.roles.listFn = func(_ context.Context, _ int64, page model.Page) ([]model.Role, int, error) {
				gotPage = page
				return model.DefaultRoles, 2, nil
			}

			res, err := svc.ListRoles(ctx, viewerID, company, model.Page{Limit: 500})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Total).To(Equal(2))
			Expect(res.Records).To(HaveLen(2))
			Expect(gotPage.Limit).To(Equal(model.MaxPageLimit))
		})
	})
})
