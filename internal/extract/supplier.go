package extract

import "strings"

// UnknownSupplier is returned when no dictionary entry matches.
const UnknownSupplier = "UNKNOWN"

// DefaultSuppliers is the reference dictionary. The real list is
// configuration; this is only the out-of-the-box default.
var DefaultSuppliers = []string{
	"MERCADONA",
	"MAKRO",
	"COCA-COLA",
	"HEINEKEN",
	"DAMM",
	"GRUPO DIA",
	"CARREFOUR",
	"LIDL",
}

// MatchSupplier returns the first dictionary entry that occurs as a
// substring of the recognized text, comparing case-insensitively.
// Dictionary order is the tie-break: when several suppliers appear in the
// text, the earliest dictionary entry wins. Returns UnknownSupplier when
// nothing matches.
func MatchSupplier(text string, suppliers []string) string {
	upper := strings.ToUpper(text)
	for _, s := range suppliers {
		if s == "" {
			continue
		}
		if strings.Contains(upper, strings.ToUpper(s)) {
			return strings.ToUpper(s)
		}
	}
	return UnknownSupplier
}
