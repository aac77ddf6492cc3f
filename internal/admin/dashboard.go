package admin

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// API is the slice of the upstream client the admin views read and
// write through.
type API interface {
	Profile(ctx context.Context, token string) (*upstream.User, error)
	ListBooks(ctx context.Context, token string) ([]upstream.Book, error)
	ListOrders(ctx context.Context, token string, scopeAll bool) ([]upstream.Order, error)
	ListDashboardOrders(ctx context.Context, token string) ([]upstream.Order, error)
	ListAuthors(ctx context.Context, token string) ([]upstream.Author, error)
	ListCategories(ctx context.Context, token string) ([]upstream.Category, error)
	ListCustomers(ctx context.Context, token string) ([]upstream.Customer, error)
	CreateResource(ctx context.Context, token string, resource upstream.AdminResource, payload map[string]any) error
	UpdateResource(ctx context.Context, token string, resource upstream.AdminResource, payload map[string]any) error
	DeleteResource(ctx context.Context, token string, resource upstream.AdminResource, id int64) error
}

type Service struct {
	api API
	now func() time.Time
}

func NewService(api API) *Service {
	return &Service{api: api, now: time.Now}
}

// requireAdmin fetches the live profile and rejects anyone whose role
// is not admin. Role comparison is case-insensitive, mirroring how the
// backend reports it.
func (s *Service) requireAdmin(ctx context.Context, token string) (*upstream.User, error) {
	user, err := s.api.Profile(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil || !strings.EqualFold(user.Role, "admin") {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	return user, nil
}

// BookStat is a compact per-title row for the top-sellers and
// low-stock panels.
type BookStat struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Sales int64  `json:"sales,omitempty"`
	Stock int64  `json:"stock"`
}

// Stats are the dashboard headline numbers for the selected period.
type Stats struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalOrders    int             `json:"totalOrders"`
	TotalCustomers int             `json:"totalCustomers"`
	TotalBooks     int             `json:"totalBooks"`
}

// Dashboard aggregates every admin panel in one payload.
type Dashboard struct {
	ProfileName  string              `json:"profileName"`
	Period       Period              `json:"period"`
	Stats        Stats               `json:"stats"`
	Trend        []TrendBucket       `json:"trend"`
	TopBooks     []BookStat          `json:"topBooks"`
	LowStock     []BookStat          `json:"lowStock"`
	RecentOrders []upstream.Order    `json:"recentOrders"`
	AdminOrders  []upstream.Order    `json:"adminOrders"`
	Books        []upstream.Book     `json:"books"`
	Authors      []upstream.Author   `json:"authors"`
	Categories   []upstream.Category `json:"categories"`
	Customers    []upstream.Customer `json:"customers"`
}

// Dashboard fans out the seven upstream reads concurrently and
// assembles the panels. The admin role gate runs inside the same
// fan-out; the first failure cancels the rest.
func (s *Service) Dashboard(ctx context.Context, token string, period Period) (*Dashboard, error) {
	var (
		user        *upstream.User
		books       []upstream.Book
		adminOrders []upstream.Order
		recent      []upstream.Order
		authors     []upstream.Author
		categories  []upstream.Category
		customers   []upstream.Customer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = s.requireAdmin(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		books, err = s.api.ListBooks(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		adminOrders, err = s.api.ListOrders(gctx, token, false)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.api.ListDashboardOrders(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		authors, err = s.api.ListAuthors(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		categories, err = s.api.ListCategories(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		customers, err = s.api.ListCustomers(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.now()
	filtered := ordersSince(recent, periodStart(period, now))

	revenue := decimal.Zero
	for _, order := range filtered {
		revenue = revenue.Add(order.Total)
	}

	return &Dashboard{
		ProfileName: user.Name,
		Period:      period,
		Stats: Stats{
			TotalRevenue:   revenue,
			TotalOrders:    len(filtered),
			TotalCustomers: len(customers),
			TotalBooks:     len(books),
		},
		Trend:        BuildTrendSeries(recent, period, now),
		TopBooks:     topBooks(books, 5),
		LowStock:     lowStockBooks(books, 6),
		RecentOrders: recentOrdersDesc(recent, 8),
		AdminOrders:  recentOrdersDesc(adminOrders, 8),
		Books:        books,
		Authors:      authors,
		Categories:   categories,
		Customers:    customers,
	}, nil
}

func ordersSince(list []upstream.Order, since time.Time) []upstream.Order {
	var out []upstream.Order
	for _, order := range list {
		if ts, ok := parseOrderDate(order.OrderDate); ok && !ts.Before(since) {
			out = append(out, order)
		}
	}
	return out
}

func topBooks(books []upstream.Book, limit int) []BookStat {
	stats := make([]BookStat, 0, len(books))
	for _, book := range books {
		stats = append(stats, BookStat{ID: book.ID, Title: book.Title, Sales: book.SalesCount, Stock: book.Stock})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Sales > stats[j].Sales })
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

// lowStockBooks surfaces titles running out: in stock but at ten or
// fewer copies, scarcest first.
func lowStockBooks(books []upstream.Book, limit int) []BookStat {
	var stats []BookStat
	for _, book := range books {
		if book.Stock > 0 && book.Stock <= 10 {
			stats = append(stats, BookStat{ID: book.ID, Title: book.Title, Stock: book.Stock})
		}
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Stock < stats[j].Stock })
	if len(stats) > limit {
		stats = stats[:limit]
	}
	return stats
}

func recentOrdersDesc(list []upstream.Order, limit int) []upstream.Order {
	out := make([]upstream.Order, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := parseOrderDate(out[i].OrderDate)
		tj, _ := parseOrderDate(out[j].OrderDate)
		return ti.After(tj)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CreateResource forwards an admin create after the role gate.
func (s *Service) CreateResource(ctx context.Context, token string, resource upstream.AdminResource, payload map[string]any) error {
	if _, err := s.requireAdmin(ctx, token); err != nil {
		return err
	}
	return s.api.CreateResource(ctx, token, resource, payload)
}

// UpdateResource forwards an admin update; the entity id travels in
// the payload, not the path.
func (s *Service) UpdateResource(ctx context.Context, token string, resource upstream.AdminResource, payload map[string]any) error {
	if _, err := s.requireAdmin(ctx, token); err != nil {
		return err
	}
	return s.api.UpdateResource(ctx, token, resource, payload)
}

// DeleteResource forwards an admin delete.
func (s *Service) DeleteResource(ctx context.Context, token string, resource upstream.AdminResource, id int64) error {
	if _, err := s.requireAdmin(ctx, token); err != nil {
		return err
	}
	return s.api.DeleteResource(ctx, token, resource, id)
}
