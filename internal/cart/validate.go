package cart

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

const msgQuantityRequired = "Quantity is required"

// ValidateDraft checks a candidate quantity string against one cart
// line. It returns an empty string when the draft is acceptable, or the
// message to surface next to the field. Empty input is reported as
// missing rather than malformed.
func ValidateDraft(item upstream.CartItem, raw string) string {
	if raw == "" {
		return msgQuantityRequired
	}
	if !digitsOnly.MatchString(raw) {
		return "Please enter digits only"
	}

	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// All digits but out of range, so the value exceeds any stock.
		if item.Stock != nil {
			return fmt.Sprintf("Only %d in stock", *item.Stock)
		}
		return "Please enter digits only"
	}
	if parsed < 1 {
		return "Quantity must be at least 1"
	}

	if item.Stock != nil && parsed > *item.Stock {
		return fmt.Sprintf("Only %d in stock", *item.Stock)
	}

	return ""
}
