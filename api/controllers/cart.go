package controllers

import (
	"net/http"

	"github.com/Mongkol7/E-Bookstore/api/responses"
	"github.com/Mongkol7/E-Bookstore/api/validators"
	"github.com/Mongkol7/E-Bookstore/internal/cart"
	"github.com/Mongkol7/E-Bookstore/pkg/logger"
)

// CartView loads the authoritative cart and renders the session's
// draft state over it.
func CartView(carts *cart.Registry, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		ctrl := carts.ForSession(sess.ID, sess.Token)
		if err := ctrl.Load(r.Context()); err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, ctrl.View())
	}
}

type draftRequest struct {
	BookID int64  `json:"book_id" validate:"required,min=1"`
	Value  string `json:"value"`
}

// CartEditDraft records raw quantity input for a line without
// committing it.
func CartEditDraft(carts *cart.Registry, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var payload draftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctrl := carts.ForSession(sess.ID, sess.Token)
		if err := ctrl.EditDraft(payload.BookID, payload.Value); err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, ctrl.View())
	}
}

type commitRequest struct {
	BookID int64 `json:"book_id" validate:"required,min=1"`
}

// CartCommitDraft settles a line's draft, reverting invalid input to
// the last accepted quantity.
func CartCommitDraft(carts *cart.Registry, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var payload commitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctrl := carts.ForSession(sess.ID, sess.Token)
		if err := ctrl.CommitDraft(payload.BookID); err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, ctrl.View())
	}
}

type stepRequest struct {
	BookID int64 `json:"book_id" validate:"required,min=1"`
	Delta  int64 `json:"delta" validate:"required,oneof=-1 1"`
}

// CartStep adjusts a line by one through the plus/minus controls.
func CartStep(carts *cart.Registry, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var payload stepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctrl := carts.ForSession(sess.ID, sess.Token)
		if err := ctrl.Step(payload.BookID, payload.Delta); err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, ctrl.View())
	}
}

// CartRemove deletes a line immediately, no draft staging.
func CartRemove(carts *cart.Registry, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var payload commitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctrl := carts.ForSession(sess.ID, sess.Token)
		if err := ctrl.Remove(r.Context(), payload.BookID); err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, ctrl.View())
	}
}
