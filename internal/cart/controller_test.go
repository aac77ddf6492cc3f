package cart

import (
	"context"
	"testing"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubAPI struct {
	items []upstream.CartItem

	fetchCalls  int
	updateCalls []struct{ id, qty int64 }
	removeCalls []int64

	fetchErr  error
	updateErr error
	removeErr error
}

func (s *stubAPI) FetchCart(ctx context.Context, token string) ([]upstream.CartItem, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return cloneItems(s.items), nil
}

func (s *stubAPI) UpdateQuantity(ctx context.Context, token string, bookID, quantity int64) ([]upstream.CartItem, error) {
	s.updateCalls = append(s.updateCalls, struct{ id, qty int64 }{bookID, quantity})
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	for i := range s.items {
		if s.items[i].ID == bookID {
			s.items[i].Quantity = quantity
		}
	}
	return cloneItems(s.items), nil
}

func (s *stubAPI) RemoveItem(ctx context.Context, token string, bookID int64) ([]upstream.CartItem, error) {
	s.removeCalls = append(s.removeCalls, bookID)
	if s.removeErr != nil {
		return nil, s.removeErr
	}
	var rest []upstream.CartItem
	for _, item := range s.items {
		if item.ID != bookID {
			rest = append(rest, item)
		}
	}
	s.items = rest
	return cloneItems(s.items), nil
}

func cloneItems(items []upstream.CartItem) []upstream.CartItem {
	out := make([]upstream.CartItem, len(items))
	copy(out, items)
	return out
}

func stockOf(n int64) *int64 { return &n }

func seededController(t *testing.T) (*Controller, *stubAPI) {
	t.Helper()
	api := &stubAPI{items: []upstream.CartItem{
		{ID: 1, Title: "Dune", Price: decimal.NewFromInt(10), Quantity: 2, Stock: stockOf(5)},
		{ID: 2, Title: "Hyperion", Price: decimal.NewFromInt(15), Quantity: 1, Stock: stockOf(3)},
	}}
	ctrl := NewController(api, "tok")
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return ctrl, api
}

func lineView(t *testing.T, ctrl *Controller, id int64) LineView {
	t.Helper()
	for _, lv := range ctrl.View().Items {
		if lv.ID == id {
			return lv
		}
	}
	t.Fatalf("line %d not in view", id)
	return LineView{}
}

func TestCommitInvalidDraftRevertsWithoutNetwork(t *testing.T) {
	ctrl, api := seededController(t)

	if err := ctrl.EditDraft(1, "abc"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got := lineView(t, ctrl, 1).DraftError; got != "Please enter digits only" {
		t.Fatalf("draft error = %q", got)
	}
	if err := ctrl.CommitDraft(1); err != nil {
		t.Fatalf("commit: %v", err)
	}

	lv := lineView(t, ctrl, 1)
	if lv.Quantity != 2 {
		t.Fatalf("committed quantity changed to %d", lv.Quantity)
	}
	if lv.Draft != "2" {
		t.Fatalf("draft not reverted, got %q", lv.Draft)
	}
	if len(api.updateCalls) != 0 {
		t.Fatalf("expected no update calls, got %d", len(api.updateCalls))
	}
}

func TestCommitOverStockRejectedNotClamped(t *testing.T) {
	ctrl, api := seededController(t)

	if err := ctrl.EditDraft(2, "9"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := ctrl.CommitDraft(2); err != nil {
		t.Fatalf("commit: %v", err)
	}

	lv := lineView(t, ctrl, 2)
	if lv.Quantity != 1 {
		t.Fatalf("quantity = %d, want untouched 1", lv.Quantity)
	}
	if lv.DraftError != "Only 3 in stock" {
		t.Fatalf("draft error = %q", lv.DraftError)
	}
	if len(api.updateCalls) != 0 {
		t.Fatalf("unexpected update calls: %d", len(api.updateCalls))
	}
}

func TestCommitValidDraftAppliesLocallyOnly(t *testing.T) {
	ctrl, api := seededController(t)

	if err := ctrl.EditDraft(1, "4"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := ctrl.CommitDraft(1); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if got := lineView(t, ctrl, 1).Quantity; got != 4 {
		t.Fatalf("quantity = %d, want 4", got)
	}
	if len(api.updateCalls) != 0 {
		t.Fatalf("commit must not hit the server, got %d calls", len(api.updateCalls))
	}
}

func TestStepCapsAtStock(t *testing.T) {
	ctrl, _ := seededController(t)

	for i := 0; i < 5; i++ {
		if err := ctrl.Step(2, 1); err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	lv := lineView(t, ctrl, 2)
	if lv.Quantity != 3 {
		t.Fatalf("quantity = %d, want capped at 3", lv.Quantity)
	}
	if lv.DraftError != "Only 3 in stock" {
		t.Fatalf("draft error = %q", lv.DraftError)
	}
}

func TestStepBelowOneIsNoop(t *testing.T) {
	ctrl, _ := seededController(t)

	if err := ctrl.Step(2, -1); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := lineView(t, ctrl, 2).Quantity; got != 1 {
		t.Fatalf("quantity = %d, want 1", got)
	}
}

func TestRemoveIssuesImmediateDelete(t *testing.T) {
	ctrl, api := seededController(t)

	if err := ctrl.Remove(context.Background(), 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(api.removeCalls) != 1 || api.removeCalls[0] != 1 {
		t.Fatalf("remove calls = %v", api.removeCalls)
	}
	view := ctrl.View()
	if len(view.Items) != 1 || view.Items[0].ID != 2 {
		t.Fatalf("items after remove = %+v", view.Items)
	}
}

func TestSyncCleanCartIssuesNoCalls(t *testing.T) {
	ctrl, api := seededController(t)

	items, err := ctrl.SyncForCheckout(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("snapshot len = %d", len(items))
	}
	if len(api.updateCalls) != 0 {
		t.Fatalf("clean cart must not persist, got %d calls", len(api.updateCalls))
	}
}

func TestSyncPersistsOnlyDirtyLines(t *testing.T) {
	ctrl, api := seededController(t)

	if err := ctrl.EditDraft(1, "4"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := ctrl.CommitDraft(1); err != nil {
		t.Fatalf("commit: %v", err)
	}

	items, err := ctrl.SyncForCheckout(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(api.updateCalls) != 1 {
		t.Fatalf("update calls = %d, want 1", len(api.updateCalls))
	}
	if api.updateCalls[0].id != 1 || api.updateCalls[0].qty != 4 {
		t.Fatalf("update call = %+v", api.updateCalls[0])
	}
	for _, item := range items {
		if item.ID == 1 && item.Quantity != 4 {
			t.Fatalf("snapshot quantity = %d", item.Quantity)
		}
	}
}

func TestSyncValidationFailureAbortsWithZeroPersists(t *testing.T) {
	ctrl, api := seededController(t)

	if err := ctrl.EditDraft(1, "4"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := ctrl.CommitDraft(1); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := ctrl.EditDraft(2, "x"); err != nil {
		t.Fatalf("edit: %v", err)
	}

	_, err := ctrl.SyncForCheckout(context.Background())
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("error = %v", err)
	}
	if len(api.updateCalls) != 0 {
		t.Fatalf("validation failure must not persist, got %d calls", len(api.updateCalls))
	}
	if got := ctrl.View().Error; got != "Please fix quantity errors before checkout." {
		t.Fatalf("banner = %q", got)
	}
}

func TestSyncAbortsOnFirstPersistFailure(t *testing.T) {
	ctrl, api := seededController(t)

	for _, id := range []int64{1, 2} {
		if err := ctrl.EditDraft(id, "3"); err != nil {
			t.Fatalf("edit: %v", err)
		}
		if err := ctrl.CommitDraft(id); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}
	api.updateErr = pkgerrors.New(pkgerrors.CodeUpstream, "bookstore backend rejected the request")

	_, err := ctrl.SyncForCheckout(context.Background())
	if err == nil {
		t.Fatal("expected persist error")
	}
	if len(api.updateCalls) != 1 {
		t.Fatalf("update calls = %d, want abort after first", len(api.updateCalls))
	}
}

func TestUnauthorizedPropagatesFromLoad(t *testing.T) {
	api := &stubAPI{fetchErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")}
	ctrl := NewController(api, "tok")

	err := ctrl.Load(context.Background())
	if !pkgerrors.IsUnauthorized(err) {
		t.Fatalf("error = %v, want unauthorized", err)
	}
	if got := ctrl.View().Error; got != "" {
		t.Fatalf("banner = %q, unauthorized must not set a banner", got)
	}
}

func TestClosedControllerDropsLateResponses(t *testing.T) {
	ctrl, _ := seededController(t)
	ctrl.Close()

	err := ctrl.Load(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("error = %v", err)
	}
}

func TestRegistryReusesAndDrops(t *testing.T) {
	reg := NewRegistry(&stubAPI{})

	a := reg.ForSession("s1", "tok")
	b := reg.ForSession("s1", "tok")
	if a != b {
		t.Fatal("registry must reuse the session controller")
	}

	reg.Drop("s1")
	c := reg.ForSession("s1", "tok")
	if c == a {
		t.Fatal("dropped controller must not be reused")
	}
}

type blockingAPI struct {
	stubAPI
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAPI) UpdateQuantity(ctx context.Context, token string, bookID, quantity int64) ([]upstream.CartItem, error) {
	close(b.entered)
	<-b.release
	return b.stubAPI.UpdateQuantity(ctx, token, bookID, quantity)
}

func TestDraftControlsBlockedWhileLinePersists(t *testing.T) {
	api := &blockingAPI{
		stubAPI: stubAPI{items: []upstream.CartItem{
			{ID: 1, Title: "Dune", Price: decimal.NewFromInt(10), Quantity: 2, Stock: stockOf(5)},
		}},
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	ctrl := NewController(api, "tok")
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := ctrl.EditDraft(1, "3"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := ctrl.CommitDraft(1); err != nil {
		t.Fatalf("commit: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.SyncForCheckout(context.Background())
		done <- err
	}()
	<-api.entered

	err := ctrl.EditDraft(1, "4")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("edit during persist = %v, want state conflict", err)
	}
	err = ctrl.CommitDraft(1)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("commit during persist = %v, want state conflict", err)
	}

	close(api.release)
	if err := <-done; err != nil {
		t.Fatalf("sync: %v", err)
	}
	if got := lineView(t, ctrl, 1).Quantity; got != 3 {
		t.Fatalf("quantity after sync = %d", got)
	}
}
