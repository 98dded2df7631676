package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the formats tickets commonly carry, tried in order.
// Day-first layouts come first: Spanish tickets print DD/MM/YYYY.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"2/1/2006",
	"02/01/06",
}

// parseTicketJSON parses the JSON the vision model returns and normalizes
// it into TicketData. The model sometimes wraps the object in markdown
// fences or surrounds it with prose, so the object is cut out first.
func parseTicketJSON(text string) (*TicketData, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var data TicketData
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	data.Date = normalizeDate(data.Date)
	data.Supplier = strings.ToUpper(strings.TrimSpace(data.Supplier))
	data.Category = strings.ToUpper(strings.TrimSpace(data.Category))
	data.RawText = strings.TrimSpace(data.RawText)

	return &data, nil
}

// normalizeDate coerces whatever date format the model produced into
// DD/MM/YYYY, defaulting to today when nothing parses.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, raw); err == nil {
				return d.Format("02/01/2006")
			}
		}
	}
	return time.Now().Format("02/01/2006")
}
