package controllers

import (
	"net/http"

	"github.com/Mongkol7/E-Bookstore/api/responses"
	"github.com/Mongkol7/E-Bookstore/internal/orders"
	"github.com/Mongkol7/E-Bookstore/pkg/logger"
)

// OrdersHistory lists the session's order history. scope=all requests
// the privileged every-order view; the backend enforces who may use it.
func OrdersHistory(svc *orders.Service, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		scopeAll := r.URL.Query().Get("scope") == "all"
		history, err := svc.History(r.Context(), sess, scopeAll)
		if err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}

// OrderDetail serves one order with its line items.
func OrderDetail(svc *orders.Service, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		id, err := pathID(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Detail(r.Context(), sess.Token, id)
		if err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"order": order})
	}
}
