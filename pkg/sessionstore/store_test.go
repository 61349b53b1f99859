package sessionstore_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dramaxav/curia-management/pkg/sessionstore"
)

func TestSessionStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SessionStore Suite")
}

type identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

var _ = Describe("Store", func() {
	var (
		dir   string
		store *sessionstore.Store
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		var err error
		store, err = sessionstore.New(dir)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should round-trip a value", func() {
		Expect(store.Save("app.current_user", identity{ID: 1, Email: "president@conseil.org"})).To(Succeed())

		var loaded identity
		ok, err := store.Load("app.current_user", &loaded)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(loaded).To(Equal(identity{ID: 1, Email: "president@conseil.org"}))
	})

	It("should report a missing key as absent, not an error", func() {
		var loaded identity
		ok, err := store.Load("never.saved", &loaded)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should overwrite on a second save", func() {
		Expect(store.Save("app.current_user", identity{ID: 1})).To(Succeed())
		Expect(store.Save("app.current_user", identity{ID: 2})).To(Succeed())

		var loaded identity
		ok, err := store.Load("app.current_user", &loaded)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(loaded.ID).To(Equal(int64(2)))
	})

	It("should discard a corrupted file and report it absent", func() {
		path := filepath.Join(dir, "app.current_user.json")
		Expect(os.WriteFile(path, []byte("{not json"), 0o600)).To(Succeed())

		var loaded identity
		ok, err := store.Load("app.current_user", &loaded)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		// the corrupted file is gone, not left to fail again
		_, statErr := os.Stat(path)
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})

	It("should clear idempotently", func() {
		Expect(store.Save("app.current_user", identity{ID: 1})).To(Succeed())
		Expect(store.Clear("app.current_user")).To(Succeed())
		Expect(store.Clear("app.current_user")).To(Succeed())

		var loaded identity
		ok, err := store.Load("app.current_user", &loaded)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})
