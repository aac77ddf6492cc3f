package controllers

import (
	"context"
	"net/http"

	"github.com/Mongkol7/E-Bookstore/api/responses"
	"github.com/Mongkol7/E-Bookstore/api/validators"
	"github.com/Mongkol7/E-Bookstore/internal/cart"
	"github.com/Mongkol7/E-Bookstore/internal/checkout"
	"github.com/Mongkol7/E-Bookstore/internal/session"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/Mongkol7/E-Bookstore/pkg/logger"
)

// purchaseRecorder is the slice of the session manager the order
// placement uses.
type purchaseRecorder interface {
	RecordPurchase(ctx context.Context, sess *session.Session, orderID, orderNumber string) error
}

// CheckoutStart reconciles the cart with the server and opens a fresh
// wizard over the confirmed snapshot. Validation or persistence
// failures keep the user on the cart.
func CheckoutStart(carts *cart.Registry, checkouts *checkout.Registry, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		ctrl := carts.ForSession(sess.ID, sess.Token)
		items, err := ctrl.SyncForCheckout(r.Context())
		if err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}

		wizard := checkouts.Start(sess.ID, sess.Token, items)
		if err := wizard.Autofill(r.Context()); err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}

		responses.WriteSuccess(w, wizard.View())
	}
}

func openWizard(w http.ResponseWriter, r *http.Request, checkouts *checkout.Registry, logg *logger.Logger, sessionID string) (*checkout.Wizard, bool) {
	wizard, ok := checkouts.ForSession(sessionID)
	if !ok {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeStateConflict, "no checkout in progress"))
		return nil, false
	}
	return wizard, true
}

// CheckoutView renders the wizard's current step, form, and totals.
func CheckoutView(checkouts *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		wizard, ok := openWizard(w, r, checkouts, logg, sess.ID)
		if !ok {
			return
		}
		responses.WriteSuccess(w, wizard.View())
	}
}

type fieldRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
}

// CheckoutField updates one form input; a country change also applies
// that country's address preset.
func CheckoutField(checkouts *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		wizard, ok := openWizard(w, r, checkouts, logg, sess.ID)
		if !ok {
			return
		}

		var payload fieldRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := wizard.SetField(payload.Name, payload.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wizard.View())
	}
}

type billingToggleRequest struct {
	SameAsShipping bool `json:"sameAsShipping"`
}

func CheckoutBillingToggle(checkouts *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		wizard, ok := openWizard(w, r, checkouts, logg, sess.ID)
		if !ok {
			return
		}

		var payload billingToggleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		wizard.SetSameAsShipping(payload.SameAsShipping)
		responses.WriteSuccess(w, wizard.View())
	}
}

// CheckoutNext advances the wizard one step.
func CheckoutNext(checkouts *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		wizard, ok := openWizard(w, r, checkouts, logg, sess.ID)
		if !ok {
			return
		}
		wizard.Next()
		responses.WriteSuccess(w, wizard.View())
	}
}

// CheckoutBack retreats the wizard one step.
func CheckoutBack(checkouts *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		wizard, ok := openWizard(w, r, checkouts, logg, sess.ID)
		if !ok {
			return
		}
		wizard.Back()
		responses.WriteSuccess(w, wizard.View())
	}
}

type jumpRequest struct {
	Step int `json:"step" validate:"required,min=1,max=3"`
}

// CheckoutJump revisits an already completed step.
func CheckoutJump(checkouts *checkout.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		wizard, ok := openWizard(w, r, checkouts, logg, sess.ID)
		if !ok {
			return
		}

		var payload jumpRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := wizard.JumpTo(checkout.Step(payload.Step)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wizard.View())
	}
}

// CheckoutPlaceOrder submits the order from the review step. Success
// records the one-time purchase highlight and closes the wizard; a
// rejected submit leaves the wizard open on review.
func CheckoutPlaceOrder(checkouts *checkout.Registry, sessions purchaseRecorder, carts *cart.Registry, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}
		wizard, ok := openWizard(w, r, checkouts, logg, sess.ID)
		if !ok {
			return
		}

		placed, err := wizard.PlaceOrder(r.Context())
		if err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		if placed == nil {
			// Submitted before review: the wizard advanced there instead.
			responses.WriteSuccess(w, wizard.View())
			return
		}

		orderID := itoa(placed.ID)
		if err := sessions.RecordPurchase(r.Context(), sess, orderID, placed.OrderNumber); err != nil && logg != nil {
			logg.Warn(r.Context(), "checkout.purchase_marker_failed")
		}

		checkouts.Drop(sess.ID)
		if carts != nil {
			carts.Drop(sess.ID)
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithField(ctx, "order_number", placed.OrderNumber)
			logg.Info(ctx, "checkout.order_placed")
		}
		responses.WriteSuccess(w, map[string]any{"order": placed})
	}
}
