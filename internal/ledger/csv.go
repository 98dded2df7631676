package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// csvHeader is the column contract shared with the historical spreadsheet
// exports. Order and names are load-bearing: existing stored data uses
// exactly this layout, with Fecha as DD/MM/YYYY and the two money columns
// formatted to 2 decimals.
var csvHeader = []string{"Producto", "Familia", "Proveedor", "Cantidad", "Precio Unitario", "Importe", "Fecha"}

// WriteCSV writes records to w in the spreadsheet-compatible layout.
func WriteCSV(w io.Writer, records []*PurchaseRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Product,
			r.Family,
			r.Supplier,
			strconv.FormatFloat(r.Quantity, 'f', -1, 64),
			fmt.Sprintf("%.2f", r.UnitPrice),
			fmt.Sprintf("%.2f", r.Amount),
			r.Date.Format(DateLayout),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses records from the spreadsheet-compatible layout. A leading
// header row matching the contract is skipped. Row order is preserved, so
// importing an export keeps the ledger's append order intact.
func ReadCSV(r io.Reader) ([]*PurchaseRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records := make([]*PurchaseRecord, 0)
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line++
		if line == 1 && row[0] == csvHeader[0] {
			continue
		}

		record, err := parseCSVRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseCSVRow(row []string) (*PurchaseRecord, error) {
	quantity, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing Cantidad %q: %w", row[3], err)
	}
	unitPrice, err := strconv.ParseFloat(row[4], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing Precio Unitario %q: %w", row[4], err)
	}
	amount, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return nil, fmt.Errorf("parsing Importe %q: %w", row[5], err)
	}
	date, err := time.Parse(DateLayout, row[6])
	if err != nil {
		return nil, fmt.Errorf("parsing Fecha %q: %w", row[6], err)
	}

	return &PurchaseRecord{
		Product:   row[0],
		Family:    row[1],
		Supplier:  row[2],
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    amount,
		Date:      date,
	}, nil
}
