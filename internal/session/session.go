package session

import (
	"time"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
)

// Session is the per-browser state the gateway keeps between requests:
// the upstream bearer token, the remember-me storage preference, a
// cached profile snapshot, and the short-lived latest-purchase marker
// used for the one-time order-history highlight.
type Session struct {
	ID             string           `json:"id"`
	Token          string           `json:"token"`
	RememberMe     bool             `json:"rememberMe"`
	Profile        *upstream.User   `json:"profile,omitempty"`
	LatestPurchase *PurchaseMarker  `json:"latestPurchase,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// PurchaseMarker records the most recently placed order. It survives
// exactly one read; consuming it clears it.
type PurchaseMarker struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	PlacedAt    time.Time `json:"placedAt"`
}
