package vehicle

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		basePath string
		storage  *LocalStorage
	)

	BeforeEach(func() {
		basePath = filepath.Join(GinkgoT().TempDir(), "photos")
		var err error
		storage, err = NewLocalStorage(basePath)
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates the base directory", func() {
		info, err := os.Stat(basePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})

	It("saves and retrieves a file", func() {
		path, err := storage.Save("img-1_receipt.png", []byte("file contents"))
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("img-1_receipt.png"))

		data, err := storage.Get(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("file contents")))
	})

	It("deletes a file", func() {
		path, err := storage.Save("img-1_receipt.png", []byte("file contents"))
		Expect(err).NotTo(HaveOccurred())

		Expect(storage.Delete(path)).To(Succeed())

		_, err = storage.Get(path)
		Expect(err).To(MatchError(ContainSubstring("reading file")))
	})

	It("fails to get a missing file", func() {
		_, err := storage.Get("nope.png")
		Expect(err).To(MatchError(ContainSubstring("reading file")))
	})
})
