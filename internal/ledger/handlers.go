package ledger

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// jsonError writes a JSON error body with CORS headers set
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// purchaseRequest is the JSON body for preview and save. Date uses the
// ledger's DD/MM/YYYY layout; empty means today.
type purchaseRequest struct {
	Product  string  `json:"product"`
	Family   string  `json:"family"`
	Supplier string  `json:"supplier"`
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

func (p purchaseRequest) toInput() (PurchaseInput, error) {
	input := PurchaseInput{
		Product:  p.Product,
		Family:   p.Family,
		Supplier: p.Supplier,
		Quantity: p.Quantity,
		Amount:   p.Amount,
	}
	if p.Date != "" {
		date, err := time.Parse(DateLayout, p.Date)
		if err != nil {
			return PurchaseInput{}, err
		}
		input.Date = date
	}
	return input, nil
}

// purchaseResponse pairs the canonical record with its price trend so the
// caller can render the warning next to the saved data.
type purchaseResponse struct {
	Record *PurchaseRecord `json:"record"`
	Trend  PriceTrend      `json:"trend"`
}

// handleScanTicket accepts a ticket photo upload and returns the
// extraction suggestion. Nothing is written to the ledger here.
func (s *Server) handleScanTicket(w http.ResponseWriter, r *http.Request) {
	// 50MB handles high-resolution phone photos
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if err.Error() == "http: no such file" {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		jsonError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		switch ext {
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".png":
			contentType = "image/png"
		case ".pdf":
			contentType = "application/pdf"
		case ".heic":
			contentType = "image/heic"
		case ".heif":
			contentType = "image/heif"
		default:
			contentType = "application/octet-stream"
		}
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	result, err := s.service.ScanTicket(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error scanning ticket", "filename", header.Filename, "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetTicketImage serves a stored ticket image
func (s *Server) handleGetTicketImage(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	if file == "" {
		corsError(w, "Ticket file required", http.StatusBadRequest)
		return
	}

	data, err := s.service.GetTicketImage(file)
	if err != nil {
		corsError(w, "Ticket image not found", http.StatusNotFound)
		return
	}

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(file)) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".pdf":
		contentType = "application/pdf"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handlePreviewPurchase validates the fields and returns the record with
// its trend without appending anything
func (s *Server) handlePreviewPurchase(w http.ResponseWriter, r *http.Request) {
	record, trend, ok := s.decodeAndRun(w, r, s.service.Preview)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(purchaseResponse{Record: record, Trend: trend}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleSavePurchase validates, classifies and appends the purchase
func (s *Server) handleSavePurchase(w http.ResponseWriter, r *http.Request) {
	record, trend, ok := s.decodeAndRun(w, r, s.service.Save)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(purchaseResponse{Record: record, Trend: trend}); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// decodeAndRun shares body decoding and error mapping between preview and
// save. Validation failures come back as 422 so the form can re-prompt;
// store failures are 500.
func (s *Server) decodeAndRun(w http.ResponseWriter, r *http.Request, run func(PurchaseInput) (*PurchaseRecord, PriceTrend, error)) (*PurchaseRecord, PriceTrend, bool) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return nil, PriceTrend{}, false
	}

	input, err := req.toInput()
	if err != nil {
		jsonError(w, "Invalid date, expected DD/MM/YYYY", http.StatusBadRequest)
		return nil, PriceTrend{}, false
	}

	record, trend, err := run(input)
	if err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			jsonError(w, vErr.Error(), http.StatusUnprocessableEntity)
			return nil, PriceTrend{}, false
		}
		slog.Error("Error processing purchase", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return nil, PriceTrend{}, false
	}
	return record, trend, true
}

// handleListPurchases returns the history, newest first, optionally
// filtered by ?product= substring
func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.History(r.URL.Query().Get("product"))
	if err != nil {
		slog.Error("Error listing purchases", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleExportCSV streams the ledger in the spreadsheet layout
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="compras.csv"`)
	if err := s.service.ExportCSV(w); err != nil {
		slog.Error("Error exporting ledger", "error", err)
	}
}

// handleImportCSV appends the rows of an uploaded spreadsheet export
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	f, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	count, err := s.service.ImportCSV(f)
	if err != nil {
		slog.Error("Error importing ledger rows", "imported", count, "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int{"imported": count})
}
