package middleware

import (
	"context"
	"net/http"

	"github.com/Mongkol7/E-Bookstore/api/responses"
	"github.com/Mongkol7/E-Bookstore/internal/session"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/Mongkol7/E-Bookstore/pkg/logger"
)

// SessionResolver is the slice of the session manager the auth
// middleware needs.
type SessionResolver interface {
	Resolve(ctx context.Context, cookie string) (*session.Session, error)
	CookieName() string
}

// SessionAuth resolves the signed session cookie and attaches the
// session to the request context. Any resolution failure expires the
// cookie and answers 401 with the login redirect.
func SessionAuth(mgr SessionResolver, logg *logger.Logger, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(mgr.CookieName())
			if err != nil || cookie.Value == "" {
				ExpireSessionCookie(w, mgr.CookieName(), secure)
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}

			sess, err := mgr.Resolve(r.Context(), cookie.Value)
			if err != nil {
				ExpireSessionCookie(w, mgr.CookieName(), secure)
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithSession(r.Context(), sess)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sess.ID)
				if sess.Profile != nil {
					ctx = logg.WithUserEmail(ctx, sess.Profile.Email)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetSessionCookie installs the signed session cookie.
func SetSessionCookie(w http.ResponseWriter, name, value string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ExpireSessionCookie tells the browser to drop the session cookie.
func ExpireSessionCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
