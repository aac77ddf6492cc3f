package orders

import (
	"context"
	"testing"

	"github.com/Mongkol7/E-Bookstore/internal/session"
	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
)

type stubAPI struct {
	orders    []upstream.Order
	ordersErr error
	lastScope bool
	order     *upstream.Order
	orderErr  error
}

func (s *stubAPI) ListOrders(ctx context.Context, token string, scopeAll bool) ([]upstream.Order, error) {
	s.lastScope = scopeAll
	return s.orders, s.ordersErr
}

func (s *stubAPI) GetOrder(ctx context.Context, token string, id int64) (*upstream.Order, error) {
	return s.order, s.orderErr
}

type stubMarkers struct {
	marker *session.PurchaseMarker
	calls  int
}

func (s *stubMarkers) ConsumePurchase(ctx context.Context, sess *session.Session) (*session.PurchaseMarker, error) {
	s.calls++
	m := s.marker
	s.marker = nil
	return m, nil
}

func TestHistoryConsumesHighlightOnce(t *testing.T) {
	api := &stubAPI{orders: []upstream.Order{{ID: 1, OrderNumber: "ORD-1"}}}
	markers := &stubMarkers{marker: &session.PurchaseMarker{OrderID: "1", OrderNumber: "ORD-1"}}
	svc := NewService(api, markers)
	sess := &session.Session{ID: "s1", Token: "tok"}

	first, err := svc.History(context.Background(), sess, false)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if first.Highlight == nil || first.Highlight.OrderNumber != "ORD-1" {
		t.Fatalf("highlight = %+v", first.Highlight)
	}

	second, err := svc.History(context.Background(), sess, false)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if second.Highlight != nil {
		t.Fatalf("highlight must only appear once, got %+v", second.Highlight)
	}
}

func TestHistoryForwardsScopeAll(t *testing.T) {
	api := &stubAPI{}
	svc := NewService(api, &stubMarkers{})

	if _, err := svc.History(context.Background(), &session.Session{Token: "tok"}, true); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !api.lastScope {
		t.Fatal("scopeAll not forwarded")
	}
}

func TestHistoryErrorSkipsMarkerConsumption(t *testing.T) {
	api := &stubAPI{ordersErr: pkgerrors.New(pkgerrors.CodeUpstream, "Unable to load order history")}
	markers := &stubMarkers{marker: &session.PurchaseMarker{OrderID: "1"}}
	svc := NewService(api, markers)

	if _, err := svc.History(context.Background(), &session.Session{Token: "tok"}, false); err == nil {
		t.Fatal("expected error")
	}
	if markers.calls != 0 {
		t.Fatal("marker must survive a failed listing")
	}
}

func TestDetailMissingOrder(t *testing.T) {
	svc := NewService(&stubAPI{}, &stubMarkers{})

	_, err := svc.Detail(context.Background(), "tok", 42)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("error = %v", err)
	}
}
