package ledger

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltLedger", func() {
	var (
		dbPath string
		gw     *BoltLedger
	)

	BeforeEach(func() {
		dbPath = filepath.Join(GinkgoT().TempDir(), "ledger.db")
		var err error
		gw, err = NewBoltLedger(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if gw != nil {
			gw.Close()
		}
	})

	Describe("ReadAll", func() {
		When("the ledger is empty", func() {
			It("returns an empty slice", func() {
				records, err := gw.ReadAll()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(BeEmpty())
			})
		})
	})

	Describe("Append", func() {
		var record *PurchaseRecord

		BeforeEach(func() {
			record = &PurchaseRecord{
				Product:   "CERVEZA",
				Family:    "BEBIDAS",
				Supplier:  "MAHOU",
				Quantity:  4,
				UnitPrice: 2.50,
				Amount:    10.0,
				Date:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			}
		})

		It("round-trips the record", func() {
			Expect(gw.Append(record)).To(Succeed())

			records, err := gw.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))

			got := records[0]
			Expect(got.Product).To(Equal("CERVEZA"))
			Expect(got.Supplier).To(Equal("MAHOU"))
			Expect(got.Quantity).To(Equal(4.0))
			Expect(got.Amount).To(Equal(10.0))
			Expect(got.UnitPrice).To(BeNumerically("~", 2.50, Epsilon))
			Expect(got.Date.Equal(record.Date)).To(BeTrue())
		})

		It("preserves append order across reads", func() {
			for _, p := range []string{"PAN", "CERVEZA", "ACEITE", "CERVEZA"} {
				Expect(gw.Append(&PurchaseRecord{Product: p, Quantity: 1, Amount: 1, UnitPrice: 1, Date: time.Now()})).To(Succeed())
			}

			records, err := gw.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(4))
			Expect(records[0].Product).To(Equal("PAN"))
			Expect(records[1].Product).To(Equal("CERVEZA"))
			Expect(records[2].Product).To(Equal("ACEITE"))
			Expect(records[3].Product).To(Equal("CERVEZA"))
		})

		It("keeps order after reopening the database", func() {
			Expect(gw.Append(record)).To(Succeed())
			second := *record
			second.Product = "ACEITE"
			Expect(gw.Append(&second)).To(Succeed())
			Expect(gw.Close()).To(Succeed())

			var err error
			gw, err = NewBoltLedger(dbPath)
			Expect(err).NotTo(HaveOccurred())

			records, err := gw.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(2))
			Expect(records[0].Product).To(Equal("CERVEZA"))
			Expect(records[1].Product).To(Equal("ACEITE"))
		})

		It("keeps order beyond 255 entries", func() {
			// Sequence keys are fixed-width big-endian, so byte order
			// stays numeric order past one byte.
			for i := 0; i < 300; i++ {
				Expect(gw.Append(&PurchaseRecord{Product: "PAN", Quantity: 1, Amount: float64(i + 1), UnitPrice: float64(i + 1)})).To(Succeed())
			}
			records, err := gw.ReadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(300))
			Expect(records[0].Amount).To(Equal(1.0))
			Expect(records[299].Amount).To(Equal(300.0))
		})
	})
})
