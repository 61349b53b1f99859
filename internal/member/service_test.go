package member

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/auth"
)

func TestMember(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Member Module Suite")
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockMemberRepository struct {
	members       map[int64]*Member
	officers      map[int64]*Officer
	nextMemberID  int64
	nextOfficerID int64
}

func newMockMemberRepository() *mockMemberRepository {
	return &mockMemberRepository{
		members:       make(map[int64]*Member),
		officers:      make(map[int64]*Officer),
		nextMemberID:  1,
		nextOfficerID: 1,
	}
}

func (m *mockMemberRepository) CreateMember(mem *Member) error {
	mem.ID = m.nextMemberID
	m.nextMemberID++
	copied := *mem
	m.members[mem.ID] = &copied
	return nil
}

func (m *mockMemberRepository) GetMemberByID(id int64) (*Member, error) {
	if mem, ok := m.members[id]; ok {
		copied := *mem
		return &copied, nil
	}
	return nil, errors.New("not found")
}

func (m *mockMemberRepository) ListMembers(praesidiumID *int64, limit, offset int) ([]*Member, error) {
	var out []*Member
	for _, mem := range m.members {
		if !mem.Actif {
			continue
		}
		if praesidiumID != nil && mem.PraesidiumID != *praesidiumID {
			continue
		}
		copied := *mem
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockMemberRepository) ListProbationary() ([]*Member, error) {
	var out []*Member
	for _, mem := range m.members {
		if mem.IsProbationary() {
			copied := *mem
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockMemberRepository) UpdateMemberStatut(id int64, statut string, promotedAt *time.Time) error {
	mem, ok := m.members[id]
	if !ok {
		return internal.ErrMemberNotFound
	}
	mem.Statut = statut
	if promotedAt != nil {
		mem.PromotedAt = promotedAt
	}
	return nil
}

func (m *mockMemberRepository) DeactivateMember(id int64) error {
	mem, ok := m.members[id]
	if !ok {
		return internal.ErrMemberNotFound
	}
	mem.Actif = false
	mem.Statut = StatutInactif
	return nil
}

func (m *mockMemberRepository) CreateOfficer(o *Officer) error {
	o.ID = m.nextOfficerID
	m.nextOfficerID++
	copied := *o
	m.officers[o.ID] = &copied
	return nil
}

func (m *mockMemberRepository) GetOfficerByID(id int64) (*Officer, error) {
	if o, ok := m.officers[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, errors.New("not found")
}

func (m *mockMemberRepository) ListActiveOfficers() ([]*Officer, error) {
	var out []*Officer
	for _, o := range m.officers {
		if o.Actif {
			copied := *o
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockMemberRepository) UpdateMandate(id int64, end time.Time) error {
	o, ok := m.officers[id]
	if !ok {
		return internal.ErrOfficerNotFound
	}
	o.DateFinMandat = end
	return nil
}

var _ = ginkgo.Describe("MemberService", func() {
	var (
		service        *Service
		mockRepo       *mockMemberRepository
		council        *auth.User
		praesidiumUser *auth.User
		ownPraesidium  = int64(7)
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockMemberRepository()
		service = NewService(mockRepo, nil, testLogger)
		council = &auth.User{
			ID:          1,
			AccountType: auth.AccountTypeCouncilOfficer,
			Poste:       "Président du Conseil",
			Status:      auth.StatusActive,
			Permissions: auth.PermissionsFor("Président du Conseil"),
		}
		praesidiumUser = &auth.User{
			ID:           3,
			AccountType:  auth.AccountTypePraesidiumOfficer,
			Poste:        "Secrétaire de Praesidium",
			PraesidiumID: &ownPraesidium,
			Status:       auth.StatusActive,
			Permissions:  auth.PermissionsFor("Secrétaire de Praesidium"),
		}
	})

	newMember := func(praesidiumID int64) *Member {
		m, err := service.CreateMember(CreateMemberDTO{
			Nom:          "Aminata Diallo",
			PraesidiumID: praesidiumID,
			DateAdhesion: time.Now().AddDate(0, -4, 0),
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return m
	}

	ginkgo.Describe("CreateMember", func() {
		ginkgo.It("should start every member probationary", func() {
			m := newMember(7)

			gomega.Expect(m.Statut).To(gomega.Equal(StatutProbationnaire))
			gomega.Expect(m.Actif).To(gomega.BeTrue())
			gomega.Expect(m.PromotedAt).To(gomega.BeNil())
		})

		ginkgo.It("should refuse a join date in the future", func() {
			_, err := service.CreateMember(CreateMemberDTO{
				Nom:          "Aminata Diallo",
				PraesidiumID: 7,
				DateAdhesion: time.Now().AddDate(0, 0, 2),
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("GetMember", func() {
		ginkgo.It("should allow a praesidium officer inside their praesidium", func() {
			m := newMember(ownPraesidium)

			found, err := service.GetMember(m.ID, praesidiumUser)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(found.ID).To(gomega.Equal(m.ID))
		})

		ginkgo.It("should deny a praesidium officer outside their praesidium", func() {
			m := newMember(8)

			_, err := service.GetMember(m.ID, praesidiumUser)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbiddenScope))
		})
	})

	ginkgo.Describe("ListMembers", func() {
		ginkgo.It("should force praesidium officers onto their own praesidium", func() {
			newMember(ownPraesidium)
			newMember(8)

			other := int64(8)
			members, err := service.ListMembers(&other, praesidiumUser, 20, 0)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(members).To(gomega.HaveLen(1))
			gomega.Expect(members[0].PraesidiumID).To(gomega.Equal(ownPraesidium))
		})

		ginkgo.It("should let council officers filter freely", func() {
			newMember(ownPraesidium)
			newMember(8)

			other := int64(8)
			members, err := service.ListMembers(&other, council, 20, 0)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(members).To(gomega.HaveLen(1))
			gomega.Expect(members[0].PraesidiumID).To(gomega.Equal(other))
		})
	})

	ginkgo.Describe("PromoteMember", func() {
		ginkgo.It("should move a probationary member to active", func() {
			m := newMember(ownPraesidium)

			promoted, err := service.PromoteMember(m.ID, praesidiumUser)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(promoted.Statut).To(gomega.Equal(StatutActif))
			gomega.Expect(promoted.PromotedAt).ToNot(gomega.BeNil())
		})

		ginkgo.It("should refuse to promote twice", func() {
			m := newMember(ownPraesidium)

			_, err := service.PromoteMember(m.ID, council)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.PromoteMember(m.ID, council)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should enforce the praesidium scope", func() {
			m := newMember(8)

			_, err := service.PromoteMember(m.ID, praesidiumUser)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbiddenScope))
		})
	})

	ginkgo.Describe("DeactivateMember", func() {
		ginkgo.It("should soft-delete, keeping the row", func() {
			m := newMember(ownPraesidium)

			gomega.Expect(service.DeactivateMember(m.ID, council)).To(gomega.Succeed())

			stored := mockRepo.members[m.ID]
			gomega.Expect(stored.Actif).To(gomega.BeFalse())
			gomega.Expect(stored.Statut).To(gomega.Equal(StatutInactif))
		})
	})

	ginkgo.Describe("Officers", func() {
		ginkgo.It("should record an officer with their mandate", func() {
			o, err := service.CreateOfficer(CreateOfficerDTO{
				Nom:             "Paul Sagna",
				Poste:           "Président de Praesidium",
				PraesidiumID:    &ownPraesidium,
				DateDebutMandat: time.Now().AddDate(-3, 0, 0),
				DateFinMandat:   time.Now().AddDate(0, 1, 0),
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(o.Actif).To(gomega.BeTrue())
		})

		ginkgo.It("should refuse a mandate ending before it starts", func() {
			_, err := service.CreateOfficer(CreateOfficerDTO{
				Nom:             "Paul Sagna",
				Poste:           "Président de Praesidium",
				DateDebutMandat: time.Now(),
				DateFinMandat:   time.Now().AddDate(-1, 0, 0),
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should extend the mandate on renewal", func() {
			o, err := service.CreateOfficer(CreateOfficerDTO{
				Nom:             "Paul Sagna",
				Poste:           "Président de Praesidium",
				DateDebutMandat: time.Now().AddDate(-3, 0, 0),
				DateFinMandat:   time.Now().AddDate(0, 1, 0),
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			newEnd := time.Now().AddDate(3, 0, 0)
			renewed, err := service.RenewMandate(o.ID, RenewMandateDTO{DateFinMandat: newEnd})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(renewed.DateFinMandat).To(gomega.BeTemporally("==", newEnd))
		})

		ginkgo.It("should report NotFound for an unknown officer", func() {
			_, err := service.RenewMandate(9999, RenewMandateDTO{DateFinMandat: time.Now().AddDate(1, 0, 0)})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrOfficerNotFound))
		})
	})
})
