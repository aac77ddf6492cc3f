package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Mongkol7/E-Bookstore/api/middleware"
	"github.com/Mongkol7/E-Bookstore/api/responses"
	"github.com/Mongkol7/E-Bookstore/internal/cart"
	"github.com/Mongkol7/E-Bookstore/internal/checkout"
	"github.com/Mongkol7/E-Bookstore/internal/session"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/Mongkol7/E-Bookstore/pkg/logger"
)

// sessionClearer is the slice of the session manager the teardown
// needs.
type sessionClearer interface {
	Clear(ctx context.Context, sessionID string) error
	CookieName() string
}

// Teardown owns the uniform unauthorized contract: on any 401 from
// upstream, drop the stored session, the per-session cart and wizard
// state, and the browser cookie, then answer with the login redirect.
type Teardown struct {
	Sessions  sessionClearer
	Carts     *cart.Registry
	Checkouts *checkout.Registry
	Secure    bool
}

// Fail writes err, tearing the session down first when it is an
// unauthorized error.
func (t *Teardown) Fail(w http.ResponseWriter, r *http.Request, logg *logger.Logger, err error) {
	if t != nil && pkgerrors.IsUnauthorized(err) {
		if sess := middleware.SessionFromContext(r.Context()); sess != nil {
			_ = t.Sessions.Clear(r.Context(), sess.ID)
			if t.Carts != nil {
				t.Carts.Drop(sess.ID)
			}
			if t.Checkouts != nil {
				t.Checkouts.Drop(sess.ID)
			}
		}
		middleware.ExpireSessionCookie(w, t.Sessions.CookieName(), t.Secure)
	}
	responses.WriteError(r.Context(), logg, w, err)
}

func requireSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*session.Session, bool) {
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return nil, false
	}
	return sess, true
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func pathID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]string{param: raw})
	}
	return id, nil
}
