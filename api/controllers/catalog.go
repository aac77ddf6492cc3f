package controllers

import (
	"net/http"

	"github.com/Mongkol7/E-Bookstore/api/responses"
	"github.com/Mongkol7/E-Bookstore/api/validators"
	"github.com/Mongkol7/E-Bookstore/internal/catalog"
	"github.com/Mongkol7/E-Bookstore/pkg/logger"
)

// CatalogList serves the browse view. Search and ordering come from
// the q and filter query parameters.
func CatalogList(svc *catalog.Service, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		query := r.URL.Query().Get("q")
		mode := catalog.ParseFilterMode(r.URL.Query().Get("filter"))

		listing, err := svc.List(r.Context(), sess.Token, query, mode)
		if err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// CatalogDetail serves the product page: the book plus up to four
// related titles from the same category.
func CatalogDetail(svc *catalog.Service, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		id, err := pathID(r, "bookID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Detail(r.Context(), sess.Token, id)
		if err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type addToCartRequest struct {
	BookID   int64 `json:"book_id" validate:"required,min=1"`
	Quantity int64 `json:"quantity" validate:"required,min=1"`
}

// CatalogAddToCart pushes a book into the server cart after the stock
// guard.
func CatalogAddToCart(svc *catalog.Service, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		var payload addToCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AddToCart(r.Context(), sess.Token, payload.BookID, payload.Quantity); err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"added": payload.Quantity})
	}
}

// CatalogReference serves the author and category pickers.
func CatalogReference(svc *catalog.Service, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		ref, err := svc.Reference(r.Context(), sess.Token)
		if err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, ref)
	}
}
