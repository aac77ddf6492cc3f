package session

import (
	"context"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
)

// ProfileProvider yields a profile snapshot. A nil user with a nil
// error means the provider has nothing to offer and the next provider
// in the chain is consulted.
type ProfileProvider interface {
	Profile(ctx context.Context) (*upstream.User, error)
}

// ProfileChain tries each provider in order and returns the first hit.
// The fallback policy (live profile, then cached snapshot, then a
// hardcoded default) is a visible pipeline rather than nested rescue
// branches. An unauthorized failure stops the chain; any other failure
// falls through to the next provider.
type ProfileChain []ProfileProvider

func (c ProfileChain) Profile(ctx context.Context) (*upstream.User, error) {
	for _, provider := range c {
		user, err := provider.Profile(ctx)
		if pkgerrors.IsUnauthorized(err) {
			return nil, err
		}
		if err == nil && user != nil {
			return user, nil
		}
	}
	return guestProfile, nil
}

var guestProfile = &upstream.User{Name: "Unknown User", Role: "Guest"}

// IsGuestProfile reports whether user is the chain's guest fallback.
func IsGuestProfile(user *upstream.User) bool {
	return user == guestProfile
}

type upstreamProfileFetcher interface {
	Profile(ctx context.Context, token string) (*upstream.User, error)
}

// UpstreamProfileProvider asks the backend for the live profile.
type UpstreamProfileProvider struct {
	Client upstreamProfileFetcher
	Token  string
}

func (p UpstreamProfileProvider) Profile(ctx context.Context) (*upstream.User, error) {
	if p.Client == nil {
		return nil, nil
	}
	return p.Client.Profile(ctx, p.Token)
}

// CachedProfileProvider serves the snapshot stored on the session.
type CachedProfileProvider struct {
	Session *Session
}

func (p CachedProfileProvider) Profile(context.Context) (*upstream.User, error) {
	if p.Session == nil || p.Session.Profile == nil {
		return nil, nil
	}
	return p.Session.Profile, nil
}
