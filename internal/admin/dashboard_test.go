package admin

import (
	"context"
	"testing"
	"time"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubAPI struct {
	user       *upstream.User
	profileErr error

	books     []upstream.Book
	orders    []upstream.Order
	recent    []upstream.Order
	recentErr error

	createCalls int
	deleteCalls int
}

func (s *stubAPI) Profile(ctx context.Context, token string) (*upstream.User, error) {
	return s.user, s.profileErr
}

func (s *stubAPI) ListBooks(ctx context.Context, token string) ([]upstream.Book, error) {
	return s.books, nil
}

func (s *stubAPI) ListOrders(ctx context.Context, token string, scopeAll bool) ([]upstream.Order, error) {
	return s.orders, nil
}

func (s *stubAPI) ListDashboardOrders(ctx context.Context, token string) ([]upstream.Order, error) {
	return s.recent, s.recentErr
}

func (s *stubAPI) ListAuthors(ctx context.Context, token string) ([]upstream.Author, error) {
	return nil, nil
}

func (s *stubAPI) ListCategories(ctx context.Context, token string) ([]upstream.Category, error) {
	return nil, nil
}

func (s *stubAPI) ListCustomers(ctx context.Context, token string) ([]upstream.Customer, error) {
	return []upstream.Customer{{ID: 1}, {ID: 2}}, nil
}

func (s *stubAPI) CreateResource(ctx context.Context, token string, resource upstream.AdminResource, payload map[string]any) error {
	s.createCalls++
	return nil
}

func (s *stubAPI) UpdateResource(ctx context.Context, token string, resource upstream.AdminResource, payload map[string]any) error {
	return nil
}

func (s *stubAPI) DeleteResource(ctx context.Context, token string, resource upstream.AdminResource, id int64) error {
	s.deleteCalls++
	return nil
}

var frozenNow = time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)

func frozenService(api *stubAPI) *Service {
	svc := NewService(api)
	svc.now = func() time.Time { return frozenNow }
	return svc
}

func orderAt(id int64, ts time.Time, total int64) upstream.Order {
	return upstream.Order{
		ID:        id,
		OrderDate: ts.Format(time.RFC3339),
		Total:     decimal.NewFromInt(total),
	}
}

func TestDashboardAggregatesPanels(t *testing.T) {
	api := &stubAPI{
		user: &upstream.User{Name: "Root", Role: "Admin"},
		books: []upstream.Book{
			{ID: 1, Title: "Dune", SalesCount: 40, Stock: 3},
			{ID: 2, Title: "Hyperion", SalesCount: 90, Stock: 50},
			{ID: 3, Title: "Mistborn", SalesCount: 10, Stock: 0},
		},
		recent: []upstream.Order{
			orderAt(1, frozenNow.AddDate(0, 0, -2), 30),
			orderAt(2, frozenNow.AddDate(0, -2, 0), 70),
		},
	}
	svc := frozenService(api)

	dash, err := svc.Dashboard(context.Background(), "tok", PeriodYear)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if dash.ProfileName != "Root" {
		t.Fatalf("profile name = %q", dash.ProfileName)
	}
	if !dash.Stats.TotalRevenue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("revenue = %s", dash.Stats.TotalRevenue)
	}
	if dash.Stats.TotalOrders != 2 || dash.Stats.TotalCustomers != 2 || dash.Stats.TotalBooks != 3 {
		t.Fatalf("stats = %+v", dash.Stats)
	}
	if dash.TopBooks[0].Title != "Hyperion" {
		t.Fatalf("top books = %+v", dash.TopBooks)
	}
	// Mistborn is out of stock, so only Dune qualifies as low stock.
	if len(dash.LowStock) != 1 || dash.LowStock[0].Title != "Dune" {
		t.Fatalf("low stock = %+v", dash.LowStock)
	}
	if dash.RecentOrders[0].ID != 1 {
		t.Fatalf("recent orders = %+v", dash.RecentOrders)
	}
	if len(dash.Trend) != 12 {
		t.Fatalf("trend buckets = %d", len(dash.Trend))
	}
}

func TestDashboardPeriodFiltersRevenue(t *testing.T) {
	api := &stubAPI{
		user: &upstream.User{Name: "Root", Role: "admin"},
		recent: []upstream.Order{
			orderAt(1, frozenNow.Add(-2*time.Hour), 30),
			orderAt(2, frozenNow.AddDate(0, -2, 0), 70),
		},
	}
	svc := frozenService(api)

	dash, err := svc.Dashboard(context.Background(), "tok", PeriodToday)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !dash.Stats.TotalRevenue.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("revenue = %s", dash.Stats.TotalRevenue)
	}
	if dash.Stats.TotalOrders != 1 {
		t.Fatalf("orders = %d", dash.Stats.TotalOrders)
	}
}

func TestDashboardRejectsNonAdmin(t *testing.T) {
	api := &stubAPI{user: &upstream.User{Name: "Jane", Role: "customer"}}
	svc := frozenService(api)

	_, err := svc.Dashboard(context.Background(), "tok", PeriodYear)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("error = %v", err)
	}
}

func TestDashboardPropagatesUnauthorized(t *testing.T) {
	api := &stubAPI{profileErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")}
	svc := frozenService(api)

	if _, err := svc.Dashboard(context.Background(), "tok", PeriodYear); !pkgerrors.IsUnauthorized(err) {
		t.Fatalf("error = %v, want unauthorized", err)
	}
}

func TestCrudGuardedByRole(t *testing.T) {
	api := &stubAPI{user: &upstream.User{Role: "customer"}}
	svc := frozenService(api)

	if err := svc.CreateResource(context.Background(), "tok", upstream.ResourceBooks, map[string]any{"title": "X"}); err == nil {
		t.Fatal("expected forbidden")
	}
	if err := svc.DeleteResource(context.Background(), "tok", upstream.ResourceBooks, 1); err == nil {
		t.Fatal("expected forbidden")
	}
	if api.createCalls != 0 || api.deleteCalls != 0 {
		t.Fatal("guarded calls must not reach upstream")
	}

	api.user = &upstream.User{Role: "Admin"}
	if err := svc.CreateResource(context.Background(), "tok", upstream.ResourceBooks, map[string]any{"title": "X"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if api.createCalls != 1 {
		t.Fatalf("create calls = %d", api.createCalls)
	}
}

func TestTrendSeriesBucketsAndNormalization(t *testing.T) {
	list := []upstream.Order{
		orderAt(1, time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC), 100),
		orderAt(2, time.Date(2025, time.March, 11, 9, 0, 0, 0, time.UTC), 50),
		orderAt(3, time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC), 25),
	}

	buckets := BuildTrendSeries(list, PeriodYear, frozenNow)
	if len(buckets) != 12 {
		t.Fatalf("buckets = %d", len(buckets))
	}

	march := buckets[2]
	if march.Orders != 2 || !march.Revenue.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("march = %+v", march)
	}
	if march.RevenueHeight != 100 || march.OrderHeight != 100 {
		t.Fatalf("march heights = %v/%v", march.RevenueHeight, march.OrderHeight)
	}

	june := buckets[5]
	if june.Orders != 1 {
		t.Fatalf("june = %+v", june)
	}
	if june.OrderHeight != 50 {
		t.Fatalf("june order height = %v", june.OrderHeight)
	}
}

func TestParsePeriodDefaultsToYear(t *testing.T) {
	if got := ParsePeriod("quarter"); got != PeriodYear {
		t.Fatalf("period = %v", got)
	}
	if got := ParsePeriod("week"); got != PeriodWeek {
		t.Fatalf("period = %v", got)
	}
}
