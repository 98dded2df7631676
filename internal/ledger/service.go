package ledger

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/mgarrido/bar-ledger/internal/extract"
	"github.com/mgarrido/bar-ledger/internal/scanning"
)

// IDGenerator generates unique IDs for scanned tickets
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// ExtractionResult is the pre-filled suggestion produced from one scanned
// ticket. It is transient: the caller shows it on a confirmation form and
// nothing reaches the ledger until the user submits the corrected fields.
type ExtractionResult struct {
	TicketID      string  `json:"ticket_id"`
	SupplierGuess string  `json:"supplier_guess"`
	CategoryGuess string  `json:"category_guess"`
	AmountGuess   float64 `json:"amount_guess"`
	AmountFound   bool    `json:"amount_found"`
	DateGuess     string  `json:"date_guess"` // DD/MM/YYYY
	SourceText    string  `json:"source_text"`
	ImagePath     string  `json:"image_path"`
}

// Service wires the extractors, the scanner and the ledger gateway into
// the capture workflow: scan a ticket into a suggestion, preview a
// purchase against history, save it on confirmation.
//
// Preview and Save each read their own ledger snapshot. A record appended
// by someone else between a preview and the matching save makes the shown
// trend stale; there is no locking or version check, matching how the
// shared sheet has always behaved.
type Service struct {
	gateway     Gateway
	scanner     scanning.Scanner
	storage     Storage
	suppliers   []string
	policy      extract.Policy
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with default ID generator and time source.
func NewService(gateway Gateway, scanner scanning.Scanner, storage Storage, suppliers []string, policy extract.Policy) *Service {
	return NewServiceWithDeps(gateway, scanner, storage, suppliers, policy, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing.
func NewServiceWithDeps(gateway Gateway, scanner scanning.Scanner, storage Storage, suppliers []string, policy extract.Policy, idGen IDGenerator, timeSrc TimeSource) *Service {
	if len(suppliers) == 0 {
		suppliers = extract.DefaultSuppliers
	}
	if !extract.ValidPolicy(policy) {
		policy = extract.PolicyLast
	}
	return &Service{
		gateway:     gateway,
		scanner:     scanner,
		storage:     storage,
		suppliers:   suppliers,
		policy:      policy,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up phone-generated filenames before storage.
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")
	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "ticket"
	}
	return base + ext
}

// ScanTicket stores the ticket image, runs recognition and assembles the
// suggestion for the confirmation form. When the model gives no usable
// structured guess, the money-pattern and supplier extractors run over the
// raw transcription instead. Never touches the ledger.
func (s *Service) ScanTicket(filename string, data []byte, contentType string) (*ExtractionResult, error) {
	id := s.idGenerator.Generate()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving ticket image: %w", err)
	}

	ticket, err := s.scanner.ScanTicket(data, contentType)
	if err != nil {
		// Keep storage consistent when recognition fails
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("scanning ticket: %w", err)
	}

	result := &ExtractionResult{
		TicketID:      id,
		SupplierGuess: ticket.Supplier,
		CategoryGuess: ticket.Category,
		AmountGuess:   ticket.Amount,
		AmountFound:   ticket.Amount > 0,
		DateGuess:     ticket.Date,
		SourceText:    ticket.RawText,
		ImagePath:     savedPath,
	}

	if result.SupplierGuess == "" || result.SupplierGuess == extract.UnknownSupplier {
		result.SupplierGuess = extract.MatchSupplier(ticket.RawText, s.suppliers)
	}
	if !result.AmountFound {
		result.AmountGuess, result.AmountFound = extract.ExtractAmount(ticket.RawText, s.policy)
	}
	if result.DateGuess == "" {
		result.DateGuess = s.timeSource.Now().Format(DateLayout)
	}

	return result, nil
}

// GetTicketImage retrieves a stored ticket image by its saved path.
func (s *Service) GetTicketImage(path string) ([]byte, error) {
	data, err := s.storage.Get(path)
	if err != nil {
		return nil, fmt.Errorf("getting ticket image: %w", err)
	}
	return data, nil
}

// Preview builds the record and classifies its unit price against the
// current ledger snapshot without writing anything. This backs the
// confirmation step.
func (s *Service) Preview(input PurchaseInput) (*PurchaseRecord, PriceTrend, error) {
	record, err := Build(input)
	if err != nil {
		return nil, PriceTrend{}, err
	}

	snapshot, err := s.gateway.ReadAll()
	if err != nil {
		return nil, PriceTrend{}, fmt.Errorf("reading ledger: %w", err)
	}

	return record, AnalyzeTrend(snapshot, record.Product, record.UnitPrice), nil
}

// Save builds the record, classifies it against the pre-append snapshot
// and appends it to the ledger. The returned trend is what the caller
// should warn about.
func (s *Service) Save(input PurchaseInput) (*PurchaseRecord, PriceTrend, error) {
	record, trend, err := s.Preview(input)
	if err != nil {
		return nil, PriceTrend{}, err
	}

	if err := s.gateway.Append(record); err != nil {
		return nil, PriceTrend{}, fmt.Errorf("appending record: %w", err)
	}

	return record, trend, nil
}

// History returns the ledger newest-first, optionally filtered by a
// case-insensitive product substring.
func (s *Service) History(productFilter string) ([]*PurchaseRecord, error) {
	snapshot, err := s.gateway.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}

	want := strings.ToUpper(strings.TrimSpace(productFilter))
	filtered := make([]*PurchaseRecord, 0, len(snapshot))
	for _, r := range snapshot {
		if want == "" || strings.Contains(strings.ToUpper(r.Product), want) {
			filtered = append(filtered, r)
		}
	}

	// newest entries first
	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}
	return filtered, nil
}

// ExportCSV writes the full ledger to w in the spreadsheet layout.
func (s *Service) ExportCSV(w io.Writer) error {
	snapshot, err := s.gateway.ReadAll()
	if err != nil {
		return fmt.Errorf("reading ledger: %w", err)
	}
	return WriteCSV(w, snapshot)
}

// ImportCSV appends every row of a spreadsheet export to the ledger, in
// row order. Rows are taken as-is; they already passed validation when
// they were first recorded.
func (s *Service) ImportCSV(r io.Reader) (int, error) {
	records, err := ReadCSV(r)
	if err != nil {
		return 0, err
	}
	for i, record := range records {
		if err := s.gateway.Append(record); err != nil {
			return i, fmt.Errorf("appending row %d: %w", i+1, err)
		}
	}
	return len(records), nil
}
