package scanning

// TicketData is the recognition output for one photographed ticket: the
// model's structured guesses plus the raw transcription. Guesses are
// suggestions only; nothing here reaches the ledger without confirmation.
type TicketData struct {
	Supplier string  `json:"supplier"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"` // DD/MM/YYYY
	RawText  string  `json:"raw_text"`
}

// Scanner defines the interface for ticket recognition backends.
type Scanner interface {
	// ScanTicket analyzes a ticket image/PDF and extracts candidate fields
	ScanTicket(imageData []byte, contentType string) (*TicketData, error)
	// Close closes the scanner and releases resources
	Close() error
}
