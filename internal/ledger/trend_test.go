package ledger

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AnalyzeTrend", func() {
	var (
		snapshot  []*PurchaseRecord
		product   string
		unitPrice float64
		trend     PriceTrend
	)

	BeforeEach(func() {
		snapshot = nil
		product = "CERVEZA"
	})

	JustBeforeEach(func() {
		trend = AnalyzeTrend(snapshot, product, unitPrice)
	})

	When("the ledger is empty", func() {
		BeforeEach(func() {
			unitPrice = 2.50
		})

		It("classifies as a new product", func() {
			Expect(trend.Direction).To(Equal(TrendNewProduct))
		})

		It("carries no previous price", func() {
			Expect(trend.PreviousUnitPrice).To(BeZero())
		})
	})

	When("the product has no prior entries", func() {
		BeforeEach(func() {
			snapshot = []*PurchaseRecord{{Product: "ACEITE", UnitPrice: 5.00}}
			unitPrice = 2.50
		})

		It("classifies as a new product", func() {
			Expect(trend.Direction).To(Equal(TrendNewProduct))
		})
	})

	Context("with one prior entry at 2.00", func() {
		BeforeEach(func() {
			snapshot = []*PurchaseRecord{{Product: "CERVEZA", UnitPrice: 2.00}}
		})

		When("the new price is higher", func() {
			BeforeEach(func() {
				unitPrice = 2.50
			})

			It("classifies as higher and carries the previous price", func() {
				Expect(trend.Direction).To(Equal(TrendHigher))
				Expect(trend.PreviousUnitPrice).To(Equal(2.00))
			})
		})

		When("the new price is lower", func() {
			BeforeEach(func() {
				unitPrice = 1.50
			})

			It("classifies as lower and carries the previous price", func() {
				Expect(trend.Direction).To(Equal(TrendLower))
				Expect(trend.PreviousUnitPrice).To(Equal(2.00))
			})
		})

		When("the new price is within epsilon", func() {
			BeforeEach(func() {
				unitPrice = 2.0005
			})

			It("classifies as equal", func() {
				Expect(trend.Direction).To(Equal(TrendEqual))
				Expect(trend.PreviousUnitPrice).To(Equal(2.00))
			})
		})

		When("the product query casing differs", func() {
			BeforeEach(func() {
				product = "cerveza"
				unitPrice = 2.50
			})

			It("still matches", func() {
				Expect(trend.Direction).To(Equal(TrendHigher))
			})
		})
	})

	When("a later entry is backdated", func() {
		BeforeEach(func() {
			snapshot = []*PurchaseRecord{
				{Product: "CERVEZA", UnitPrice: 3.00, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
				{Product: "CERVEZA", UnitPrice: 2.00, Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
			}
			unitPrice = 2.50
		})

		It("uses the last appended entry, not the latest date", func() {
			Expect(trend.Direction).To(Equal(TrendHigher))
			Expect(trend.PreviousUnitPrice).To(Equal(2.00))
		})
	})

	When("other products are interleaved", func() {
		BeforeEach(func() {
			snapshot = []*PurchaseRecord{
				{Product: "CERVEZA", UnitPrice: 2.00},
				{Product: "ACEITE", UnitPrice: 9.00},
				{Product: "CERVEZA", UnitPrice: 2.20},
				{Product: "PAN", UnitPrice: 1.10},
			}
			unitPrice = 2.20
		})

		It("compares against the last entry for the queried product", func() {
			Expect(trend.Direction).To(Equal(TrendEqual))
			Expect(trend.PreviousUnitPrice).To(Equal(2.20))
		})
	})
})
