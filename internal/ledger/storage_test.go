package ledger

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save", func() {
		It("writes the ticket image to disk and returns its name", func() {
			savedPath, err := storage.Save("ticket.jpg", []byte("image data"))
			Expect(err).NotTo(HaveOccurred())
			Expect(savedPath).To(Equal("ticket.jpg"))
			Expect(filepath.Join(tmpDir, "ticket.jpg")).To(BeAnExistingFile())
		})
	})

	Describe("Get", func() {
		When("the image exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("ticket.jpg", []byte("image data"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("returns its contents", func() {
				data, err := storage.Get("ticket.jpg")
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("image data"))
			})
		})

		When("the image does not exist", func() {
			It("returns an error", func() {
				_, err := storage.Get("missing.jpg")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			_, err := storage.Save("ticket.jpg", []byte("image data"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("removes the file", func() {
			Expect(storage.Delete("ticket.jpg")).To(Succeed())
			Expect(filepath.Join(tmpDir, "ticket.jpg")).NotTo(BeAnExistingFile())
		})

		It("errors on a missing file", func() {
			Expect(storage.Delete("missing.jpg")).NotTo(Succeed())
		})
	})
})
