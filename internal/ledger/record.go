package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used at every storage and API
// boundary. It matches the layout of the historical spreadsheet exports.
const DateLayout = "02/01/2006"

// PurchaseRecord is one purchase event. Records are immutable once built;
// corrections are made by appending a new record, never by editing.
type PurchaseRecord struct {
	Product   string    `json:"product"`
	Family    string    `json:"family"`
	Supplier  string    `json:"supplier"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Amount    float64   `json:"amount"`
	Date      time.Time `json:"date"`
}

// PurchaseInput carries the raw field values for one purchase, whether
// they came from a manual form or a confirmed ticket scan. UnitPrice is
// never supplied; it is always derived.
type PurchaseInput struct {
	Product  string    `json:"product"`
	Family   string    `json:"family"`
	Supplier string    `json:"supplier"`
	Quantity float64   `json:"quantity"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"-"`
}

// Validation failures raised by Build. All are recoverable by re-prompting
// the caller; none leaves a partially built record behind.
var (
	ErrEmptyProduct        = errors.New("product is required")
	ErrNonPositiveAmount   = errors.New("amount must be greater than zero")
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
)

// ValidationError wraps one of the validation sentinels with the offending
// field name.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Build validates raw purchase fields and assembles the canonical record.
// Checks run in order and the first failure wins: product must be non-empty
// after trimming, then amount > 0, then quantity > 0.
//
// On success product, family and supplier are upper-cased and the unit
// price is computed as amount/quantity, rounded half-up to 2 decimals.
// A zero date defaults to now.
func Build(input PurchaseInput) (*PurchaseRecord, error) {
	product := strings.TrimSpace(input.Product)
	if product == "" {
		return nil, &ValidationError{Field: "product", Err: ErrEmptyProduct}
	}
	if input.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Err: ErrNonPositiveAmount}
	}
	if input.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Err: ErrNonPositiveQuantity}
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	return &PurchaseRecord{
		Product:   strings.ToUpper(product),
		Family:    strings.ToUpper(strings.TrimSpace(input.Family)),
		Supplier:  strings.ToUpper(strings.TrimSpace(input.Supplier)),
		Quantity:  input.Quantity,
		UnitPrice: round2(input.Amount / input.Quantity),
		Amount:    input.Amount,
		Date:      date,
	}, nil
}

// round2 rounds half-up to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
