package cart

import (
	"testing"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
)

func TestValidateDraftMessages(t *testing.T) {
	item := upstream.CartItem{ID: 1, Quantity: 2, Stock: stockOf(5)}

	for raw, want := range map[string]string{
		"":     "Quantity is required",
		"2a":   "Please enter digits only",
		"-1":   "Please enter digits only",
		"0":    "Quantity must be at least 1",
		"6":    "Only 5 in stock",
		"3":    "",
		"0003": "",
	} {
		if got := ValidateDraft(item, raw); got != want {
			t.Fatalf("draft %q: message %q, want %q", raw, got, want)
		}
	}
}

func TestValidateDraftOverflowReportsStock(t *testing.T) {
	huge := "99999999999999999999"

	item := upstream.CartItem{ID: 1, Quantity: 2, Stock: stockOf(5)}
	if got := ValidateDraft(item, huge); got != "Only 5 in stock" {
		t.Fatalf("overflow with finite stock: %q", got)
	}

	unbounded := upstream.CartItem{ID: 2, Quantity: 1}
	if got := ValidateDraft(unbounded, huge); got != "Please enter digits only" {
		t.Fatalf("overflow without stock: %q", got)
	}
}
