package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/dramaxav/curia-management/internal"
)

var _ = ginkgo.Describe("Guard", func() {
	var (
		guard   *Guard
		next    http.Handler
		reached bool
	)

	ginkgo.BeforeEach(func() {
		guard = NewGuard(testLogger)
		reached = false
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		})
	})

	withUser := func(r *http.Request, u *User) *http.Request {
		return r.WithContext(ContextWithUser(r.Context(), u))
	}

	councilUser := func() *User {
		return &User{
			ID:          1,
			AccountType: AccountTypeCouncilOfficer,
			Poste:       "Président du Conseil",
			Status:      StatusActive,
			Permissions: PermissionsFor("Président du Conseil"),
		}
	}

	praesidiumUser := func(praesidiumID int64) *User {
		return &User{
			ID:           3,
			AccountType:  AccountTypePraesidiumOfficer,
			Poste:        "Secrétaire de Praesidium",
			PraesidiumID: &praesidiumID,
			Status:       StatusActive,
			Permissions:  PermissionsFor("Secrétaire de Praesidium"),
		}
	}

	ginkgo.Describe("RequireAuth", func() {
		ginkgo.It("should send unauthenticated callers back with the requested destination", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/members?limit=5", nil)
			w := httptest.NewRecorder()

			guard.RequireAuth(next).ServeHTTP(w, req)

			gomega.Expect(reached).To(gomega.BeFalse())
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))

			var body map[string]interface{}
			gomega.Expect(json.NewDecoder(w.Body).Decode(&body)).To(gomega.Succeed())
			gomega.Expect(body["redirect_to"]).To(gomega.Equal("/api/v1/members?limit=5"))
		})

		ginkgo.It("should admit authenticated callers", func() {
			req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/members", nil), councilUser())
			w := httptest.NewRecorder()

			guard.RequireAuth(next).ServeHTTP(w, req)

			gomega.Expect(reached).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("RequirePermission", func() {
		ginkgo.It("should name the actor, permission and scope in the denial", func() {
			mw := guard.RequirePermission(PermissionManageMembers, ScopeFromQuery("praesidium_id"))
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/members?praesidium_id=8", nil), praesidiumUser(7))
			w := httptest.NewRecorder()

			mw(next).ServeHTTP(w, req)

			gomega.Expect(reached).To(gomega.BeFalse())
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))

			var body map[string]interface{}
			gomega.Expect(json.NewDecoder(w.Body).Decode(&body)).To(gomega.Succeed())
			errObj, ok := body["error"].(map[string]interface{})
			gomega.Expect(ok).To(gomega.BeTrue())
			details, ok := errObj["details"].(map[string]interface{})
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(details["required_permission"]).To(gomega.Equal("manage_members"))
			gomega.Expect(details["poste"]).To(gomega.Equal("Secrétaire de Praesidium"))
			gomega.Expect(details["scope"]).To(gomega.BeNumerically("==", 8))
		})

		ginkgo.It("should leave the shared forbidden sentinel untouched by a denial", func() {
			mw := guard.RequirePermission(PermissionManageMembers, ScopeFromQuery("praesidium_id"))
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/members?praesidium_id=8", nil), praesidiumUser(7))
			w := httptest.NewRecorder()

			mw(next).ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(internal.ErrUnauthorizedAccess.Details).To(gomega.BeNil())
		})

		ginkgo.It("should admit the caller within their own praesidium", func() {
			mw := guard.RequirePermission(PermissionManageMembers, ScopeFromQuery("praesidium_id"))
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/members?praesidium_id=7", nil), praesidiumUser(7))
			w := httptest.NewRecorder()

			mw(next).ServeHTTP(w, req)

			gomega.Expect(reached).To(gomega.BeTrue())
		})

		ginkgo.It("should never scope-restrict council officers", func() {
			mw := guard.RequirePermission(PermissionManageMembers, ScopeFromQuery("praesidium_id"))
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/members?praesidium_id=8", nil), councilUser())
			w := httptest.NewRecorder()

			mw(next).ServeHTTP(w, req)

			gomega.Expect(reached).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("RequireAnyPermission", func() {
		ginkgo.It("should admit a caller holding one of the permissions", func() {
			mw := guard.RequireAnyPermission(PermissionApproveAccounts, PermissionApprovePresences)
			req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/approvals/pending", nil), praesidiumUser(7))
			w := httptest.NewRecorder()

			mw(next).ServeHTTP(w, req)

			// the secretary holds approve_presences
			gomega.Expect(reached).To(gomega.BeTrue())
		})

		ginkgo.It("should deny a caller holding none", func() {
			mw := guard.RequireAnyPermission(PermissionApproveAccounts, PermissionApproveFinances)
			req := withUser(httptest.NewRequest(http.MethodGet, "/api/v1/approvals/pending", nil), praesidiumUser(7))
			w := httptest.NewRecorder()

			mw(next).ServeHTTP(w, req)

			gomega.Expect(reached).To(gomega.BeFalse())
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
		})
	})

	ginkgo.Describe("PublicOnly", func() {
		ginkgo.It("should redirect an authenticated caller to the landing location", func() {
			mw := guard.PublicOnly("/api/v1/users/me")
			req := withUser(httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil), councilUser())
			w := httptest.NewRecorder()

			mw(next).ServeHTTP(w, req)

			gomega.Expect(reached).To(gomega.BeFalse())
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusSeeOther))
			gomega.Expect(w.Header().Get("Location")).To(gomega.Equal("/api/v1/users/me"))
		})

		ginkgo.It("should let anonymous callers through", func() {
			mw := guard.PublicOnly("/api/v1/users/me")
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			w := httptest.NewRecorder()

			mw(next).ServeHTTP(w, req)

			gomega.Expect(reached).To(gomega.BeTrue())
		})
	})
})
