package orders

import (
	"context"

	"github.com/Mongkol7/E-Bookstore/internal/session"
	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
)

// API is the slice of the upstream client the order views read through.
type API interface {
	ListOrders(ctx context.Context, token string, scopeAll bool) ([]upstream.Order, error)
	GetOrder(ctx context.Context, token string, id int64) (*upstream.Order, error)
}

// markerStore consumes the one-shot latest-purchase highlight.
type markerStore interface {
	ConsumePurchase(ctx context.Context, sess *session.Session) (*session.PurchaseMarker, error)
}

type Service struct {
	api     API
	markers markerStore
}

func NewService(api API, markers markerStore) *Service {
	return &Service{api: api, markers: markers}
}

// History is the order list plus the one-time highlight hint for an
// order that was just placed.
type History struct {
	Orders    []upstream.Order        `json:"orders"`
	Highlight *session.PurchaseMarker `json:"highlight,omitempty"`
}

// History lists the session's orders, or every order when scopeAll is
// set. The latest-purchase marker is consumed on the first listing
// after a placement so the highlight shows exactly once.
func (s *Service) History(ctx context.Context, sess *session.Session, scopeAll bool) (*History, error) {
	list, err := s.api.ListOrders(ctx, sess.Token, scopeAll)
	if err != nil {
		return nil, err
	}

	history := &History{Orders: list}
	if marker, err := s.markers.ConsumePurchase(ctx, sess); err == nil && marker != nil {
		history.Highlight = marker
	}
	return history, nil
}

// Detail fetches one order with its line items.
func (s *Service) Detail(ctx context.Context, token string, id int64) (*upstream.Order, error) {
	order, err := s.api.GetOrder(ctx, token, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}
