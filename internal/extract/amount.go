package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Policy selects which monetary candidate is reported as the ticket total.
type Policy string

const (
	// PolicyLast picks the last amount in reading order. Receipts
	// conventionally print the grand total last.
	PolicyLast Policy = "last"
	// PolicyMax picks the largest amount. Some ticket layouts print
	// per-line subtotals after the total, where last-wins misfires.
	PolicyMax Policy = "max"
)

// amountPattern matches decimal monetary tokens: one or more digits, a
// dot or comma separator, exactly two decimal digits (e.g. "12,50", "3.40").
var amountPattern = regexp.MustCompile(`\d+[.,]\d{2}`)

// ValidPolicy reports whether p is a known selection policy.
func ValidPolicy(p Policy) bool {
	return p == PolicyLast || p == PolicyMax
}

// ExtractAmount scans recognized ticket text for decimal monetary tokens
// and returns the total-amount candidate under the given policy. The bool
// is false when no token was found, which is distinct from a real 0.00
// amount on the ticket.
func ExtractAmount(text string, policy Policy) (float64, bool) {
	matches := amountPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return 0, false
	}

	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return 0, false
	}

	if policy == PolicyMax {
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max, true
	}
	return values[len(values)-1], true
}
