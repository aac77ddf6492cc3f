package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func line(price string, qty int64) Line {
	return Line{Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestSummarizeBelowFreeShippingThreshold(t *testing.T) {
	s := Summarize([]Line{line("10", 2)})

	if got := s.Subtotal.StringFixed(2); got != "20.00" {
		t.Fatalf("subtotal = %s, want 20.00", got)
	}
	if got := s.Tax.StringFixed(2); got != "2.00" {
		t.Fatalf("tax = %s, want 2.00", got)
	}
	if got := s.Shipping.StringFixed(2); got != "5.99" {
		t.Fatalf("shipping = %s, want 5.99", got)
	}
	if got := s.Total.StringFixed(2); got != "27.99" {
		t.Fatalf("total = %s, want 27.99", got)
	}
	if s.FreeShipping() {
		t.Fatal("subtotal 20 must not qualify for free shipping")
	}
}

func TestSummarizeFreeShipping(t *testing.T) {
	s := Summarize([]Line{line("30", 2)})

	if !s.FreeShipping() {
		t.Fatal("subtotal 60 must qualify for free shipping")
	}
	if got := s.Total.StringFixed(2); got != "66.00" {
		t.Fatalf("total = %s, want 66.00", got)
	}
	if !s.AmountToFreeShipping().IsZero() {
		t.Fatal("no remaining spend expected once free shipping is unlocked")
	}
}

func TestSummarizeExactThresholdStillPaysShipping(t *testing.T) {
	// Strictly greater than 50 unlocks free shipping; exactly 50 does not.
	s := Summarize([]Line{line("50", 1)})
	if s.FreeShipping() {
		t.Fatal("subtotal of exactly 50 must still pay shipping")
	}
	if got := s.AmountToFreeShipping().StringFixed(2); got != "0.00" {
		t.Fatalf("remaining to free shipping = %s, want 0.00", got)
	}
}

func TestSummarizeIsPure(t *testing.T) {
	lines := []Line{line("12.50", 3), line("4.99", 1)}
	first := Summarize(lines)
	second := Summarize(lines)

	if !first.Total.Equal(second.Total) || !first.Tax.Equal(second.Tax) {
		t.Fatalf("summary must be deterministic: %v vs %v", first, second)
	}
}

func TestSummarizeEmptyCart(t *testing.T) {
	s := Summarize(nil)
	if !s.Subtotal.IsZero() {
		t.Fatalf("empty cart subtotal = %s", s.Subtotal)
	}
	if got := s.Shipping.StringFixed(2); got != "5.99" {
		t.Fatalf("empty cart shipping = %s, want 5.99", got)
	}
}

func TestViewFormatting(t *testing.T) {
	v := Summarize([]Line{line("10", 2)}).View()
	if v.Subtotal != "20.00" || v.Tax != "2.00" || v.Shipping != "5.99" || v.Total != "27.99" {
		t.Fatalf("unexpected view: %+v", v)
	}
	if v.Free {
		t.Fatal("view must not report free shipping below threshold")
	}
}
