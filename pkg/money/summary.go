package money

import "github.com/shopspring/decimal"

var (
	taxRate          = decimal.RequireFromString("0.10")
	freeShippingOver = decimal.NewFromInt(50)
	flatShipping     = decimal.RequireFromString("5.99")
)

// Line is the {price, quantity} pair the summary is a pure function of.
type Line struct {
	Price    decimal.Decimal
	Quantity int64
}

// Summary holds the derived order totals. It carries no state of its own
// and must come out identical for the same lines in the cart and
// checkout views.
type Summary struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Summarize recomputes the order summary from scratch: subtotal is the
// sum of price x quantity, tax is 10% of the subtotal, and shipping is
// free once the subtotal exceeds 50.
func Summarize(lines []Line) Summary {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(line.Quantity)))
	}

	tax := subtotal.Mul(taxRate)
	shipping := flatShipping
	if subtotal.GreaterThan(freeShippingOver) {
		shipping = decimal.Zero
	}

	return Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

// FreeShipping reports whether the summary qualified for free shipping.
func (s Summary) FreeShipping() bool {
	return s.Shipping.IsZero()
}

// AmountToFreeShipping returns how much more spend unlocks free
// shipping, or zero when already unlocked.
func (s Summary) AmountToFreeShipping() decimal.Decimal {
	if s.Subtotal.GreaterThan(freeShippingOver) {
		return decimal.Zero
	}
	remaining := freeShippingOver.Sub(s.Subtotal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// View renders the summary with two-decimal display strings.
type View struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
	Free     bool   `json:"freeShipping"`
}

func (s Summary) View() View {
	return View{
		Subtotal: s.Subtotal.StringFixed(2),
		Tax:      s.Tax.StringFixed(2),
		Shipping: s.Shipping.StringFixed(2),
		Total:    s.Total.StringFixed(2),
		Free:     s.FreeShipping(),
	}
}
