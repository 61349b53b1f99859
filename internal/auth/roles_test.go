package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Roles", func() {
	ginkgo.Describe("ParsePermission", func() {
		ginkgo.It("should accept every known token", func() {
			for _, p := range allPermissions {
				parsed, err := ParsePermission(string(p))
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(parsed).To(gomega.Equal(p))
			}
		})

		ginkgo.It("should reject unknown tokens", func() {
			_, err := ParsePermission("delete_everything")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should reject the empty string", func() {
			_, err := ParsePermission("")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("PermissionsFor", func() {
		ginkgo.It("should give the council president every permission", func() {
			perms := PermissionsFor("Président du Conseil")
			gomega.Expect(perms).To(gomega.ConsistOf(allPermissions))
		})

		ginkgo.It("should return nothing for an unknown poste", func() {
			gomega.Expect(PermissionsFor("Gardien du Temple")).To(gomega.BeEmpty())
		})

		ginkgo.It("should hand out copies, not the shared slice", func() {
			a := PermissionsFor("Trésorier du Conseil")
			a[0] = Permission("tampered")

			b := PermissionsFor("Trésorier du Conseil")
			gomega.Expect(b).ToNot(gomega.ContainElement(Permission("tampered")))
		})

		ginkgo.It("should scope praesidium treasurers to finance duties", func() {
			perms := PermissionsFor("Trésorier de Praesidium")
			gomega.Expect(perms).To(gomega.ContainElement(PermissionViewFinances))
			gomega.Expect(perms).ToNot(gomega.ContainElement(PermissionApproveAccounts))
			gomega.Expect(perms).ToNot(gomega.ContainElement(PermissionViewAllPraesidia))
		})
	})

	ginkgo.Describe("Allowed", func() {
		var (
			ownPraesidium   = int64(7)
			otherPraesidium = int64(8)
			council         *User
			praesidiumUser  *User
		)

		ginkgo.BeforeEach(func() {
			council = &User{
				ID:          1,
				AccountType: AccountTypeCouncilOfficer,
				Poste:       "Président du Conseil",
				Status:      StatusActive,
				Permissions: PermissionsFor("Président du Conseil"),
			}
			praesidiumUser = &User{
				ID:           3,
				AccountType:  AccountTypePraesidiumOfficer,
				Poste:        "Secrétaire de Praesidium",
				PraesidiumID: &ownPraesidium,
				Status:       StatusActive,
				Permissions:  PermissionsFor("Secrétaire de Praesidium"),
			}
		})

		ginkgo.It("should deny everything for a nil user", func() {
			gomega.Expect(Allowed(nil, PermissionManageMembers, nil)).To(gomega.BeFalse())
		})

		ginkgo.It("should deny a permission the poste does not carry", func() {
			gomega.Expect(Allowed(praesidiumUser, PermissionApproveAccounts, nil)).To(gomega.BeFalse())
		})

		ginkgo.It("should never scope-restrict council officers", func() {
			gomega.Expect(Allowed(council, PermissionManageMembers, &otherPraesidium)).To(gomega.BeTrue())
		})

		ginkgo.It("should allow a praesidium officer inside their own praesidium", func() {
			gomega.Expect(Allowed(praesidiumUser, PermissionManageMembers, &ownPraesidium)).To(gomega.BeTrue())
		})

		ginkgo.It("should deny a praesidium officer outside their praesidium", func() {
			gomega.Expect(Allowed(praesidiumUser, PermissionManageMembers, &otherPraesidium)).To(gomega.BeFalse())
		})

		ginkgo.It("should skip the scope check when no scope is supplied", func() {
			gomega.Expect(Allowed(praesidiumUser, PermissionManageMembers, nil)).To(gomega.BeTrue())
		})
	})
})
