package controllers

import (
	"context"
	"net/http"

	"github.com/Mongkol7/E-Bookstore/api/middleware"
	"github.com/Mongkol7/E-Bookstore/api/responses"
	"github.com/Mongkol7/E-Bookstore/api/validators"
	"github.com/Mongkol7/E-Bookstore/internal/session"
	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/Mongkol7/E-Bookstore/pkg/logger"
)

// AuthClient is the slice of the upstream client the auth flows use.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (string, *upstream.User, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (*upstream.User, error)
	Signup(ctx context.Context, firstName, lastName, email, password, phone, address string) error
}

// sessionOpener is the slice of the session manager the login flow
// uses.
type sessionOpener interface {
	Create(ctx context.Context, token string, rememberMe bool, profile *upstream.User) (*session.Session, string, error)
	CookieName() string
	CookieMaxAge(rememberMe bool) int
}

type loginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// AuthLogin exchanges credentials with the backend and opens the
// gateway session. Remember-me picks the long cookie lifetime.
func AuthLogin(client AuthClient, sessions sessionOpener, secure bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		token, user, err := client.Login(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, cookie, err := sessions.Create(r.Context(), token, payload.RememberMe, user)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "opening session"))
			return
		}

		middleware.SetSessionCookie(w, sessions.CookieName(), cookie, sessions.CookieMaxAge(payload.RememberMe), secure)

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSessionID(ctx, sess.ID)
			logg.Info(ctx, "auth.login")
		}
		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

type signupRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// AuthSignup registers a customer account. The account is created in
// the backend; the user signs in afterwards.
func AuthSignup(client AuthClient, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload signupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := client.Signup(r.Context(), payload.FirstName, payload.LastName, payload.Email, payload.Password, payload.Phone, payload.Address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{
			"message": "Account created successfully. Please sign in.",
		})
	}
}

// AuthLogout tells the backend to revoke the token, best effort, then
// drops all local session state unconditionally.
func AuthLogout(client AuthClient, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		if err := client.Logout(r.Context(), sess.Token); err != nil && logg != nil {
			logg.Warn(r.Context(), "auth.logout.upstream_failed")
		}

		_ = teardown.Sessions.Clear(r.Context(), sess.ID)
		if teardown.Carts != nil {
			teardown.Carts.Drop(sess.ID)
		}
		if teardown.Checkouts != nil {
			teardown.Checkouts.Drop(sess.ID)
		}
		middleware.ExpireSessionCookie(w, teardown.Sessions.CookieName(), teardown.Secure)

		responses.WriteSuccess(w, map[string]string{"message": "logged out"})
	}
}

// profileCacher is the slice of the session manager the profile flow
// uses.
type profileCacher interface {
	CacheProfile(ctx context.Context, sess *session.Session, profile *upstream.User) error
}

// AuthProfile resolves the profile through the provider chain: live
// backend first, then the cached snapshot, then the guest default. A
// chain hit refreshes the cache; an expired token tears the session
// down.
func AuthProfile(client AuthClient, sessions profileCacher, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		chain := session.ProfileChain{
			session.UpstreamProfileProvider{Client: client, Token: sess.Token},
			session.CachedProfileProvider{Session: sess},
		}
		user, err := chain.Profile(r.Context())
		if err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}

		if !session.IsGuestProfile(user) {
			_ = sessions.CacheProfile(r.Context(), sess, user)
		}
		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}
