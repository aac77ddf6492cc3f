package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
)

// FilterMode selects the catalog ordering. "none" keeps the backend's
// order; the others re-sort the already search-filtered list.
type FilterMode string

const (
	FilterNone       FilterMode = "none"
	FilterCategories FilterMode = "categories"
	FilterAuthors    FilterMode = "authors"
	FilterPrice      FilterMode = "price"
	FilterTrending   FilterMode = "trending"
)

func ParseFilterMode(raw string) FilterMode {
	switch FilterMode(raw) {
	case FilterCategories, FilterAuthors, FilterPrice, FilterTrending:
		return FilterMode(raw)
	default:
		return FilterNone
	}
}

// API is the slice of the upstream client the catalog reads through.
type API interface {
	ListBooks(ctx context.Context, token string) ([]upstream.Book, error)
	GetBook(ctx context.Context, token string, id int64) (*upstream.Book, error)
	ListAuthors(ctx context.Context, token string) ([]upstream.Author, error)
	ListCategories(ctx context.Context, token string) ([]upstream.Category, error)
	AddItem(ctx context.Context, token string, bookID, quantity int64) error
}

type Service struct {
	api API
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// matchesQuery reports whether a book's title, author, or category
// contains the lowercased query.
func matchesQuery(book upstream.Book, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(book.Title), query) ||
		strings.Contains(strings.ToLower(book.AuthorName), query) ||
		strings.Contains(strings.ToLower(book.CategoryName), query)
}

func trendScore(book upstream.Book) float64 {
	if book.SalesCount > 0 {
		return float64(book.SalesCount)
	}
	return book.Rating
}

// VisibleBooks applies the free-text search and then the selected
// ordering. Search always runs first; the filter only reorders.
func VisibleBooks(books []upstream.Book, query string, mode FilterMode) []upstream.Book {
	query = strings.ToLower(strings.TrimSpace(query))

	visible := make([]upstream.Book, 0, len(books))
	for _, book := range books {
		if matchesQuery(book, query) {
			visible = append(visible, book)
		}
	}

	switch mode {
	case FilterCategories:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].CategoryName < visible[j].CategoryName
		})
	case FilterAuthors:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].AuthorName < visible[j].AuthorName
		})
	case FilterPrice:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].Price.LessThan(visible[j].Price)
		})
	case FilterTrending:
		sort.SliceStable(visible, func(i, j int) bool {
			return trendScore(visible[i]) > trendScore(visible[j])
		})
	}
	return visible
}

// AuthorOptions returns the distinct author names across the catalog,
// sorted, for the filter dropdown.
func AuthorOptions(books []upstream.Book) []string {
	seen := map[string]struct{}{}
	var options []string
	for _, book := range books {
		name := strings.TrimSpace(book.AuthorName)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		options = append(options, name)
	}
	sort.Strings(options)
	return options
}

// RelatedBooks picks up to limit books sharing the subject book's
// category, matching on category id when both sides carry one and
// falling back to a case-insensitive name match.
func RelatedBooks(all []upstream.Book, book upstream.Book, limit int) []upstream.Book {
	var related []upstream.Book
	for _, candidate := range all {
		if candidate.ID == book.ID {
			continue
		}
		if book.CategoryID != nil && candidate.CategoryID != nil {
			if *candidate.CategoryID != *book.CategoryID {
				continue
			}
		} else if !strings.EqualFold(candidate.CategoryName, book.CategoryName) {
			continue
		}
		related = append(related, candidate)
		if len(related) == limit {
			break
		}
	}
	return related
}

// Listing is the browse view: the filtered books plus the dropdown
// options derived from the full catalog.
type Listing struct {
	Books         []upstream.Book `json:"books"`
	AuthorOptions []string        `json:"authorOptions"`
	Query         string          `json:"query"`
	Filter        FilterMode      `json:"filter"`
}

func (s *Service) List(ctx context.Context, token, query string, mode FilterMode) (*Listing, error) {
	books, err := s.api.ListBooks(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Listing{
		Books:         VisibleBooks(books, query, mode),
		AuthorOptions: AuthorOptions(books),
		Query:         strings.TrimSpace(query),
		Filter:        mode,
	}, nil
}

// Detail is the product page view: the book plus its related picks.
type Detail struct {
	Book    upstream.Book   `json:"book"`
	Related []upstream.Book `json:"related"`
}

// Detail loads one book and derives its related list from the full
// catalog. A failure listing the catalog degrades to an empty related
// section rather than failing the page.
func (s *Service) Detail(ctx context.Context, token string, id int64) (*Detail, error) {
	book, err := s.api.GetBook(ctx, token, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "Book data is invalid.")
	}

	detail := &Detail{Book: *book}
	if all, err := s.api.ListBooks(ctx, token); err == nil {
		detail.Related = RelatedBooks(all, *book, 4)
	} else if pkgerrors.IsUnauthorized(err) {
		return nil, err
	}
	return detail, nil
}

// AddToCart pushes a quantity of one book into the server cart. The
// quantity is validated against live stock before the write.
func (s *Service) AddToCart(ctx context.Context, token string, bookID, quantity int64) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be at least 1")
	}
	book, err := s.api.GetBook(ctx, token, bookID)
	if err != nil {
		return err
	}
	if book == nil || book.Stock < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "This book is out of stock")
	}
	if quantity > book.Stock {
		return pkgerrors.New(pkgerrors.CodeValidation, "Quantity exceeds available stock")
	}
	return s.api.AddItem(ctx, token, bookID, quantity)
}

// Reference lists the author and category entities for pickers.
type Reference struct {
	Authors    []upstream.Author   `json:"authors"`
	Categories []upstream.Category `json:"categories"`
}

func (s *Service) Reference(ctx context.Context, token string) (*Reference, error) {
	authors, err := s.api.ListAuthors(ctx, token)
	if err != nil {
		return nil, err
	}
	categories, err := s.api.ListCategories(ctx, token)
	if err != nil {
		return nil, err
	}
	return &Reference{Authors: authors, Categories: categories}, nil
}
