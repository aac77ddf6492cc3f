package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	"github.com/Mongkol7/E-Bookstore/pkg/config"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager owns the full session lifecycle: creation on login, lookup on
// every request, mutation of the cached profile and purchase marker,
// and the uniform clear-on-401 contract.
type Manager struct {
	store Store
	cfg   config.SessionConfig
	now   func() time.Time
}

func NewManager(store Store, cfg config.SessionConfig) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.TTL() <= 0 || cfg.ShortTTL() <= 0 {
		return nil, fmt.Errorf("session ttls must be positive")
	}
	return &Manager{store: store, cfg: cfg, now: time.Now}, nil
}

func (m *Manager) CookieName() string {
	return m.cfg.CookieName
}

func (m *Manager) ttlFor(rememberMe bool) time.Duration {
	if rememberMe {
		return m.cfg.TTL()
	}
	return m.cfg.ShortTTL()
}

// CookieMaxAge is the browser cookie lifetime in seconds, matching the
// stored session's TTL.
func (m *Manager) CookieMaxAge(rememberMe bool) int {
	return int(m.ttlFor(rememberMe).Seconds())
}

// Create opens a session for a freshly obtained upstream token and
// returns the signed cookie value the browser carries back.
func (m *Manager) Create(ctx context.Context, token string, rememberMe bool, profile *upstream.User) (*Session, string, error) {
	if strings.TrimSpace(token) == "" {
		return nil, "", fmt.Errorf("upstream token is required")
	}

	sess := &Session{
		ID:         uuid.NewString(),
		Token:      token,
		RememberMe: rememberMe,
		Profile:    profile,
		CreatedAt:  m.now(),
	}
	if err := m.Save(ctx, sess); err != nil {
		return nil, "", err
	}

	cookie, err := m.mintCookie(sess)
	if err != nil {
		return nil, "", err
	}
	return sess, cookie, nil
}

func (m *Manager) mintCookie(sess *Session) (string, error) {
	now := m.now()
	claims := cookieClaims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttlFor(sess.RememberMe))),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing session cookie: %w", err)
	}
	return signed, nil
}

// Resolve validates a cookie value and loads the live session behind it.
// Any failure maps to the unauthorized code so that callers fall into
// the single clear-session-and-redirect path.
func (m *Manager) Resolve(ctx context.Context, cookie string) (*Session, error) {
	claims := &cookieClaims{}
	_, err := jwt.ParseWithClaims(cookie, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwtSigningMethod {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithIssuer(m.cfg.Issuer))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session cookie")
	}
	if claims.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	raw, err := m.store.Get(ctx, claims.SessionID)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session")
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode session")
	}
	return &sess, nil
}

// Save writes the session back with its remaining TTL class.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	encoded, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return m.store.Set(ctx, sess.ID, string(encoded), m.ttlFor(sess.RememberMe))
}

// Clear drops all locally cached auth state for the session. This is
// the one uniform 401 contract: every component funnels through here.
func (m *Manager) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	return m.store.Del(ctx, sessionID)
}

// RecordPurchase stores the latest-purchase marker after a successful
// order placement. Best effort: failures are ignored by callers.
func (m *Manager) RecordPurchase(ctx context.Context, sess *Session, orderID, orderNumber string) error {
	sess.LatestPurchase = &PurchaseMarker{
		OrderID:     orderID,
		OrderNumber: orderNumber,
		PlacedAt:    m.now(),
	}
	return m.Save(ctx, sess)
}

// ConsumePurchase returns the marker and clears it, so the highlight
// renders exactly once.
func (m *Manager) ConsumePurchase(ctx context.Context, sess *Session) (*PurchaseMarker, error) {
	marker := sess.LatestPurchase
	if marker == nil {
		return nil, nil
	}
	sess.LatestPurchase = nil
	if err := m.Save(ctx, sess); err != nil {
		return nil, err
	}
	return marker, nil
}

// CacheProfile refreshes the session's profile snapshot.
func (m *Manager) CacheProfile(ctx context.Context, sess *Session, profile *upstream.User) error {
	sess.Profile = profile
	return m.Save(ctx, sess)
}
