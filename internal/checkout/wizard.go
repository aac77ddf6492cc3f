package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/Mongkol7/E-Bookstore/pkg/money"
)

// Step is the wizard position. Steps move by Next/Back, by revisiting
// an earlier step, or by the final submit, which first lands the user
// on review.
type Step int

const (
	StepShipping Step = iota + 1
	StepPayment
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// Form mirrors the checkout inputs. Payment fields are display-only:
// only the card number's last four digits ever leave the gateway, as
// part of the payment descriptor.
type Form struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`

	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`

	SameAsShipping bool   `json:"sameAsShipping"`
	BillingAddress string `json:"billingAddress"`
	BillingCity    string `json:"billingCity"`
	BillingState   string `json:"billingState"`
	BillingZipCode string `json:"billingZipCode"`
}

// API is the slice of the upstream client the wizard drives.
type API interface {
	Profile(ctx context.Context, token string) (*upstream.User, error)
	PlaceOrder(ctx context.Context, token string, address upstream.ShippingAddress, paymentMethod string) (*upstream.PlacedOrder, error)
}

// Wizard walks one checkout attempt over a frozen item snapshot. The
// snapshot comes from the cart's pre-checkout sync and never changes
// while the wizard is open; totals are recomputed from it on every
// view.
type Wizard struct {
	mu     sync.Mutex
	api    API
	token  string
	items  []upstream.CartItem
	step   Step
	form   Form
	closed bool
}

func NewWizard(api API, token string, items []upstream.CartItem) *Wizard {
	return &Wizard{
		api:   api,
		token: token,
		items: items,
		step:  StepShipping,
		form: Form{
			Country:        "United States",
			SameAsShipping: true,
		},
	}
}

// Close suppresses any further mutation from late responses.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

// Autofill seeds the shipping fields from the customer profile.
// Unauthorized propagates so the caller can clear the session; any
// other failure is swallowed and the form stays manually editable.
func (w *Wizard) Autofill(ctx context.Context) error {
	w.mu.Lock()
	token := w.token
	w.mu.Unlock()

	user, err := w.api.Profile(ctx, token)
	if err != nil {
		if pkgerrors.IsUnauthorized(err) {
			return err
		}
		return nil
	}
	if user == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	fill := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	fill(&w.form.Email, user.Email)
	fill(&w.form.FirstName, user.FirstName)
	fill(&w.form.LastName, user.LastName)
	fill(&w.form.Phone, user.Phone)
	fill(&w.form.Address, user.Address)
	return nil
}

// SetField updates a single form input by its wire name. A country
// change additionally overwrites the address fields with that
// country's preset.
func (w *Wizard) SetField(name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch name {
	case "email":
		w.form.Email = value
	case "firstName":
		w.form.FirstName = value
	case "lastName":
		w.form.LastName = value
	case "phone":
		w.form.Phone = value
	case "address":
		w.form.Address = value
	case "city":
		w.form.City = value
	case "state":
		w.form.State = value
	case "zipCode":
		w.form.ZipCode = value
	case "country":
		w.form.Country = value
		if preset, ok := PresetFor(value); ok {
			w.form.Address = preset.Address
			w.form.City = preset.City
			w.form.State = preset.State
			w.form.ZipCode = preset.ZipCode
		}
	case "cardNumber":
		w.form.CardNumber = value
	case "cardName":
		w.form.CardName = value
	case "expiryDate":
		w.form.ExpiryDate = value
	case "cvv":
		w.form.CVV = value
	case "billingAddress":
		w.form.BillingAddress = value
	case "billingCity":
		w.form.BillingCity = value
	case "billingState":
		w.form.BillingState = value
	case "billingZipCode":
		w.form.BillingZipCode = value
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown checkout field").
			WithDetails(map[string]string{"field": name})
	}
	return nil
}

func (w *Wizard) SetSameAsShipping(same bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.SameAsShipping = same
}

// Next advances one step, stopping at review.
func (w *Wizard) Next() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step < StepReview {
		w.step++
	}
	return w.step
}

// Back retreats one step, stopping at shipping.
func (w *Wizard) Back() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepShipping {
		w.step--
	}
	return w.step
}

// JumpTo revisits an already reached step. Jumping forward past the
// current step is rejected; review is only reached through submission.
func (w *Wizard) JumpTo(target Step) (Step, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if target < StepShipping || target > StepReview {
		return w.step, pkgerrors.New(pkgerrors.CodeValidation, "unknown checkout step")
	}
	if target > w.step {
		return w.step, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot skip ahead in checkout")
	}
	w.step = target
	return w.step, nil
}

func (w *Wizard) paymentDescriptor() string {
	if w.form.CardNumber != "" {
		digits := w.form.CardNumber
		if len(digits) > 4 {
			digits = digits[len(digits)-4:]
		}
		return "Card ending in " + digits
	}
	return "Card"
}

func (w *Wizard) shippingAddress() upstream.ShippingAddress {
	return upstream.ShippingAddress{
		Name:    strings.TrimSpace(w.form.FirstName + " " + w.form.LastName),
		Street:  w.form.Address,
		City:    w.form.City,
		State:   w.form.State,
		ZipCode: w.form.ZipCode,
		Country: w.form.Country,
		Phone:   w.form.Phone,
		Email:   w.form.Email,
	}
}

// PlaceOrder submits the order. Called before the review step it only
// advances the wizard there, returning no order. An empty snapshot
// blocks the submit outright. The wizard stays on review after a
// rejected submit so the user can retry.
func (w *Wizard) PlaceOrder(ctx context.Context) (*upstream.PlacedOrder, error) {
	w.mu.Lock()
	if w.step < StepReview {
		w.step = StepReview
		w.mu.Unlock()
		return nil, nil
	}
	if len(w.items) == 0 {
		w.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"Your cart is empty. Please add items before placing order.")
	}
	address := w.shippingAddress()
	descriptor := w.paymentDescriptor()
	token := w.token
	w.mu.Unlock()

	placed, err := w.api.PlaceOrder(ctx, token, address, descriptor)
	if err != nil {
		return nil, err
	}
	if placed == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "Unable to place order")
	}
	return placed, nil
}

// View is the wizard state rendered for the HTTP layer.
type View struct {
	Step    Step                `json:"step"`
	Form    Form                `json:"form"`
	Items   []upstream.CartItem `json:"items"`
	Summary money.View          `json:"summary"`
}

func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	lines := make([]money.Line, 0, len(w.items))
	for _, item := range w.items {
		lines = append(lines, money.Line{Price: item.Price, Quantity: item.Quantity})
	}
	items := make([]upstream.CartItem, len(w.items))
	copy(items, w.items)

	return View{
		Step:    w.step,
		Form:    w.form,
		Items:   items,
		Summary: money.Summarize(lines).View(),
	}
}
