package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/dramaxav/curia-management/pkg/sessionstore"
)

var _ = ginkgo.Describe("Session", func() {
	var (
		mockRepo *mockUserRepository
		store    *mockDurableStore
		session  *Session
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		store = newMockDurableStore()
		session = NewSession(mockRepo, store, "test.current_user", testLogger)
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should make the user current and resolve permissions", func() {
			user, err := session.Login(LoginDTO{
				Email:    "president@conseil.org",
				Password: "correct_password",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(session.CurrentUser().ID).To(gomega.Equal(user.ID))
			gomega.Expect(user.Permissions).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should persist a snapshot to the durable store", func() {
			_, err := session.Login(LoginDTO{
				Email:    "president@conseil.org",
				Password: "correct_password",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(store.values).To(gomega.HaveKey("test.current_user"))
		})

		ginkgo.It("should still log in when persisting fails", func() {
			store.saveErr = errAssert

			user, err := session.Login(LoginDTO{
				Email:    "president@conseil.org",
				Password: "correct_password",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user).ToNot(gomega.BeNil())
			gomega.Expect(session.CurrentUser()).ToNot(gomega.BeNil())
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should clear the identity and the durable copy", func() {
			_, err := session.Login(LoginDTO{
				Email:    "president@conseil.org",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			session.Logout()

			gomega.Expect(session.CurrentUser()).To(gomega.BeNil())
			gomega.Expect(store.values).ToNot(gomega.HaveKey("test.current_user"))
		})

		ginkgo.It("should be idempotent", func() {
			session.Logout()
			session.Logout()
			gomega.Expect(session.CurrentUser()).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("Rehydration", func() {
		ginkgo.It("should restore the identity across restarts", func() {
			_, err := session.Login(LoginDTO{
				Email:    "tresorier.ndv@praesidium.org",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// a new session over the same store simulates a restart
			restarted := NewSession(mockRepo, store, "test.current_user", testLogger)

			current := restarted.CurrentUser()
			gomega.Expect(current).ToNot(gomega.BeNil())
			gomega.Expect(current.ID).To(gomega.Equal(int64(3)))
			gomega.Expect(current.Permissions).To(gomega.Equal(PermissionsFor("Trésorier de Praesidium")))
		})

		ginkgo.It("should discard a snapshot of a non-active account", func() {
			gomega.Expect(store.Save("test.current_user", persistedIdentity{
				ID:     2,
				Email:  "secretaire@conseil.org",
				Poste:  "Secrétaire du Conseil",
				Status: StatusSuspended,
			})).To(gomega.Succeed())

			restarted := NewSession(mockRepo, store, "test.current_user", testLogger)

			gomega.Expect(restarted.CurrentUser()).To(gomega.BeNil())
			gomega.Expect(store.values).ToNot(gomega.HaveKey("test.current_user"))
		})

		ginkgo.It("should round-trip through the file-backed store", func() {
			dir := ginkgo.GinkgoT().TempDir()
			fileStore, err := sessionstore.New(dir)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			first := NewSession(mockRepo, fileStore, "test.current_user", testLogger)
			_, err = first.Login(LoginDTO{
				Email:    "president@conseil.org",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			restarted := NewSession(mockRepo, fileStore, "test.current_user", testLogger)
			gomega.Expect(restarted.CurrentUser()).ToNot(gomega.BeNil())
			gomega.Expect(restarted.CurrentUser().Email).To(gomega.Equal("president@conseil.org"))
		})
	})

	ginkgo.Describe("HasPermission", func() {
		ginkgo.It("should answer false without a session", func() {
			gomega.Expect(session.HasPermission(PermissionManageMembers, nil)).To(gomega.BeFalse())
		})

		ginkgo.It("should apply the praesidium scoping rule", func() {
			_, err := session.Login(LoginDTO{
				Email:    "tresorier.ndv@praesidium.org",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			own := int64(7)
			other := int64(8)
			gomega.Expect(session.HasPermission(PermissionViewFinances, &own)).To(gomega.BeTrue())
			gomega.Expect(session.HasPermission(PermissionViewFinances, &other)).To(gomega.BeFalse())
		})
	})
})
