package ledger

import "strings"

// Epsilon is the slack used when comparing unit prices. Unit prices come
// out of a division and carry rounding noise, so strict equality would
// flag identical prices as changed.
const Epsilon = 0.001

// TrendDirection classifies a new unit price against the previous one.
type TrendDirection string

const (
	TrendHigher     TrendDirection = "higher"
	TrendLower      TrendDirection = "lower"
	TrendEqual      TrendDirection = "equal"
	TrendNewProduct TrendDirection = "new_product"
)

// PriceTrend is the result of comparing a new unit price against ledger
// history. PreviousUnitPrice is only meaningful when Direction is not
// TrendNewProduct.
type PriceTrend struct {
	Direction         TrendDirection `json:"direction"`
	PreviousUnitPrice float64        `json:"previous_unit_price,omitempty"`
}

// AnalyzeTrend classifies unitPrice against the snapshot's history for
// product. The reference price is taken from the last matching record in
// the snapshot's insertion order — the most recently appended entry, not
// the one with the latest date, since dates are user-editable and can be
// backdated. Product matching is case-insensitive and exact.
func AnalyzeTrend(snapshot []*PurchaseRecord, product string, unitPrice float64) PriceTrend {
	want := strings.ToUpper(strings.TrimSpace(product))

	var ref *PurchaseRecord
	for _, r := range snapshot {
		if strings.ToUpper(r.Product) == want {
			ref = r
		}
	}
	if ref == nil {
		return PriceTrend{Direction: TrendNewProduct}
	}

	switch {
	case unitPrice > ref.UnitPrice+Epsilon:
		return PriceTrend{Direction: TrendHigher, PreviousUnitPrice: ref.UnitPrice}
	case unitPrice < ref.UnitPrice-Epsilon:
		return PriceTrend{Direction: TrendLower, PreviousUnitPrice: ref.UnitPrice}
	default:
		return PriceTrend{Direction: TrendEqual, PreviousUnitPrice: ref.UnitPrice}
	}
}
