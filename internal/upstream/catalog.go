package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListBooks returns the full catalog. The backend responds with a bare
// JSON array rather than an envelope.
func (c *Client) ListBooks(ctx context.Context, token string) ([]Book, error) {
	var books []Book
	if err := c.call(ctx, token, http.MethodGet, "/api/books", nil, &books, "Unable to load books"); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches one catalog entry by id. The backend responds with
// the book object itself, no envelope.
func (c *Client) GetBook(ctx context.Context, token string, id int64) (*Book, error) {
	path := fmt.Sprintf("/api/books/%s", url.PathEscape(fmt.Sprintf("%d", id)))
	var book Book
	if err := c.call(ctx, token, http.MethodGet, path, nil, &book, "Unable to load book details."); err != nil {
		return nil, err
	}
	// An empty 2xx body leaves the zero value; report it as no book
	// rather than an id-less record.
	if book.ID == 0 {
		return nil, nil
	}
	return &book, nil
}

// ListAuthors returns all authors (bare array response).
func (c *Client) ListAuthors(ctx context.Context, token string) ([]Author, error) {
	var authors []Author
	if err := c.call(ctx, token, http.MethodGet, "/api/authors", nil, &authors, "Unable to load authors"); err != nil {
		return nil, err
	}
	return authors, nil
}

// ListCategories returns all categories (bare array response).
func (c *Client) ListCategories(ctx context.Context, token string) ([]Category, error) {
	var categories []Category
	if err := c.call(ctx, token, http.MethodGet, "/api/categories", nil, &categories, "Unable to load categories"); err != nil {
		return nil, err
	}
	return categories, nil
}
