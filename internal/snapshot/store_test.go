package snapshot_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/storysnap/internal/snapshot"
)

var _ = Describe("Store", func() {
	var store *snapshot.Store

	BeforeEach(func() {
		dir := GinkgoT().TempDir()
		store = snapshot.NewStore(filepath.Join(dir, "snapshots"), filepath.Join(dir, "snapshots", "__received__"))
	})

	It("should report a missing baseline without error", func() {
		_, ok, err := store.Baseline("some-story--dark")
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should round-trip a baseline", func() {
		Expect(store.WriteBaseline("some-story--dark", []byte("png-bytes"))).To(Succeed())
		data, ok, err := store.Baseline("some-story--dark")
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(data).To(Equal([]byte("png-bytes")))
	})

	It("should keep received images out of the baselines", func() {
		Expect(store.WriteReceived("some-story--dark", []byte("candidate"))).To(Succeed())
		_, ok, err := store.Baseline("some-story--dark")
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	Describe("Approve", func() {
		It("should do nothing when there is nothing to approve", func() {
			promoted, err := store.Approve()
			Expect(err).ToNot(HaveOccurred())
			Expect(promoted).To(BeEmpty())
		})

		It("should promote received images over their baselines", func() {
			Expect(store.WriteBaseline("a--dark", []byte("old"))).To(Succeed())
			Expect(store.WriteReceived("a--dark", []byte("new"))).To(Succeed())
			Expect(store.WriteReceived("b--light", []byte("fresh"))).To(Succeed())

			promoted, err := store.Approve()
			Expect(err).ToNot(HaveOccurred())
			Expect(promoted).To(ConsistOf("a--dark", "b--light"))

			data, ok, err := store.Baseline("a--dark")
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(data).To(Equal([]byte("new")))

			entries, err := os.ReadDir(store.ReceivedDir)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})
	})
})
