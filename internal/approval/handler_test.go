package approval_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dramaxav/curia-management/internal/approval"
	approvalPostgres "github.com/dramaxav/curia-management/internal/approval/postgres"
	"github.com/dramaxav/curia-management/internal/auth"
)

var handlerLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// sqliteRequest mirrors approval.Request without the postgres-only
// column defaults so AutoMigrate works against SQLite.
type sqliteRequest struct {
	ID          int64      `gorm:"primaryKey"`
	Kind        string     `gorm:"column:kind;not null;index"`
	SubjectID   int64      `gorm:"column:subject_id;not null"`
	SubmitterID int64      `gorm:"column:submitter_id;not null"`
	Status      string     `gorm:"column:status;default:pending;index"`
	SubmittedAt time.Time  `gorm:"column:submitted_at"`
	DecidedBy   *int64     `gorm:"column:decided_by"`
	DecidedAt   *time.Time `gorm:"column:decided_at"`
	Comment     string     `gorm:"column:comment"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (sqliteRequest) TableName() string {
	return "approval_requests"
}

var _ = Describe("Approval Handler Integration", func() {
	var (
		db      *gorm.DB
		service *approval.Service
		handler *approval.Handler
		router  *chi.Mux

		submitter *auth.User
		treasurer *auth.User
		secretary *auth.User
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&sqliteRequest{})
		Expect(err).NotTo(HaveOccurred())

		repo := approvalPostgres.NewApprovalRepository(db)
		service = approval.NewService(repo, nil, handlerLogger)
		handler = approval.NewHandler(service)

		router = chi.NewRouter()
		router.Post("/approvals", handler.Submit)
		router.Get("/approvals", handler.ListPending)
		router.Get("/approvals/{id}", handler.Get)
		router.Patch("/approvals/{id}/approve", handler.Approve)
		router.Patch("/approvals/{id}/reject", handler.Reject)

		praesidiumID := int64(4)
		submitter = &auth.User{
			ID:           10,
			Email:        "secretaire@praesidium.org",
			AccountType:  auth.AccountTypePraesidiumOfficer,
			Poste:        "Secrétaire de Praesidium",
			PraesidiumID: &praesidiumID,
			Status:       auth.StatusActive,
			Permissions:  auth.PermissionsFor("Secrétaire de Praesidium"),
		}
		treasurer = &auth.User{
			ID:          11,
			Email:       "tresorier@conseil.org",
			AccountType: auth.AccountTypeCouncilOfficer,
			Poste:       "Trésorier du Conseil",
			Status:      auth.StatusActive,
			Permissions: auth.PermissionsFor("Trésorier du Conseil"),
		}
		secretary = &auth.User{
			ID:          12,
			Email:       "secretaire@conseil.org",
			AccountType: auth.AccountTypeCouncilOfficer,
			Poste:       "Secrétaire du Conseil",
			Status:      auth.StatusActive,
			Permissions: auth.PermissionsFor("Secrétaire du Conseil"),
		}
	})

	submit := func(actor *auth.User, kind string, subjectID int64) *httptest.ResponseRecorder {
		body, err := json.Marshal(approval.SubmitDTO{Kind: kind, SubjectID: subjectID})
		Expect(err).NotTo(HaveOccurred())

		req := httptest.NewRequest(http.MethodPost, "/approvals", bytes.NewReader(body))
		req = req.WithContext(auth.ContextWithUser(req.Context(), actor))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decide := func(actor *auth.User, path string, body []byte) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req := httptest.NewRequest(http.MethodPatch, path, reader)
		req = req.WithContext(auth.ContextWithUser(req.Context(), actor))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should persist a submitted request and return it as pending", func() {
		w := submit(submitter, approval.KindFinance, 42)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var created approval.Request
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).NotTo(BeZero())
		Expect(created.Status).To(Equal(approval.StatusPending))
		Expect(created.SubmitterID).To(Equal(submitter.ID))
	})

	It("should reject submission without an authenticated user", func() {
		body, _ := json.Marshal(approval.SubmitDTO{Kind: approval.KindAccount, SubjectID: 1})
		req := httptest.NewRequest(http.MethodPost, "/approvals", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should list only pending requests of the requested kind", func() {
		submit(submitter, approval.KindFinance, 1)
		submit(submitter, approval.KindAccount, 2)

		req := httptest.NewRequest(http.MethodGet, "/approvals?kind=finance", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var response struct {
			Approvals []*approval.Request `json:"approvals"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Approvals).To(HaveLen(1))
		Expect(response.Approvals[0].Kind).To(Equal(approval.KindFinance))
	})

	It("should approve a pending request exactly once", func() {
		submit(submitter, approval.KindFinance, 42)

		w := decide(treasurer, "/approvals/1/approve", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var decided approval.Request
		Expect(json.NewDecoder(w.Body).Decode(&decided)).To(Succeed())
		Expect(decided.Status).To(Equal(approval.StatusApproved))
		Expect(decided.DecidedBy).NotTo(BeNil())
		Expect(*decided.DecidedBy).To(Equal(treasurer.ID))

		w = decide(treasurer, "/approvals/1/approve", nil)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should refuse a decision by an actor lacking the kind-matched permission", func() {
		submit(submitter, approval.KindFinance, 42)

		// the council secretary approves presence sheets, not finances
		w := decide(secretary, "/approvals/1/approve", nil)
		Expect(w.Code).To(Equal(http.StatusForbidden))

		getW := httptest.NewRecorder()
		router.ServeHTTP(getW, httptest.NewRequest(http.MethodGet, "/approvals/1", nil))

		var stored approval.Request
		Expect(json.NewDecoder(getW.Body).Decode(&stored)).To(Succeed())
		Expect(stored.Status).To(Equal(approval.StatusPending))
		Expect(stored.DecidedBy).To(BeNil())
	})

	It("should let the same actor decide a request of a kind they do hold", func() {
		submit(submitter, approval.KindPresence, 7)

		w := decide(secretary, "/approvals/1/approve", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		var decided approval.Request
		Expect(json.NewDecoder(w.Body).Decode(&decided)).To(Succeed())
		Expect(decided.Status).To(Equal(approval.StatusApproved))
		Expect(*decided.DecidedBy).To(Equal(secretary.ID))
	})

	It("should refuse a rejection without a comment", func() {
		submit(submitter, approval.KindFinance, 42)

		body, _ := json.Marshal(approval.DecideDTO{Comment: "   "})
		w := decide(treasurer, "/approvals/1/reject", body)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		getW := httptest.NewRecorder()
		router.ServeHTTP(getW, httptest.NewRequest(http.MethodGet, "/approvals/1", nil))

		var stored approval.Request
		Expect(json.NewDecoder(getW.Body).Decode(&stored)).To(Succeed())
		Expect(stored.Status).To(Equal(approval.StatusPending))
	})

	It("should record the rejection comment", func() {
		submit(submitter, approval.KindPresence, 7)

		body, _ := json.Marshal(approval.DecideDTO{Comment: "attendance sheet missing"})
		w := decide(secretary, "/approvals/1/reject", body)
		Expect(w.Code).To(Equal(http.StatusOK))

		var decided approval.Request
		Expect(json.NewDecoder(w.Body).Decode(&decided)).To(Succeed())
		Expect(decided.Status).To(Equal(approval.StatusRejected))
		Expect(decided.Comment).To(Equal("attendance sheet missing"))
	})

	It("should return 404 for an unknown request id", func() {
		req := httptest.NewRequest(http.MethodGet, "/approvals/999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
