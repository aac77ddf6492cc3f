package upstream

import (
	"context"
	"fmt"
	"net/http"
)

// AdminResource names one of the CRUD-managed backend collections.
type AdminResource string

const (
	ResourceBooks      AdminResource = "books"
	ResourceAuthors    AdminResource = "authors"
	ResourceCategories AdminResource = "categories"
	ResourceCustomers  AdminResource = "customers"
)

func (r AdminResource) Valid() bool {
	switch r {
	case ResourceBooks, ResourceAuthors, ResourceCategories, ResourceCustomers:
		return true
	}
	return false
}

// CreateResource posts a new record to the named collection. The backend
// exposes verb-suffixed paths (/api/<resource>/post) rather than REST
// resources, so the path is assembled here in one place.
func (c *Client) CreateResource(ctx context.Context, token string, resource AdminResource, payload map[string]any) error {
	path := fmt.Sprintf("/api/%s/post", resource)
	return c.call(ctx, token, http.MethodPost, path, payload, nil, fmt.Sprintf("Unable to create %s record", resource))
}

// UpdateResource updates an existing record; the record id rides in the
// payload, matching the backend's contract.
func (c *Client) UpdateResource(ctx context.Context, token string, resource AdminResource, payload map[string]any) error {
	path := fmt.Sprintf("/api/%s/put", resource)
	return c.call(ctx, token, http.MethodPut, path, payload, nil, fmt.Sprintf("Unable to update %s record", resource))
}

// DeleteResource removes a record by id.
func (c *Client) DeleteResource(ctx context.Context, token string, resource AdminResource, id int64) error {
	path := fmt.Sprintf("/api/%s/delete", resource)
	body := map[string]int64{"id": id}
	return c.call(ctx, token, http.MethodDelete, path, body, nil, fmt.Sprintf("Unable to delete %s record", resource))
}

// ListCustomers returns all customer accounts (bare array response).
func (c *Client) ListCustomers(ctx context.Context, token string) ([]Customer, error) {
	var customers []Customer
	if err := c.call(ctx, token, http.MethodGet, "/api/customers", nil, &customers, "Unable to load customers"); err != nil {
		return nil, err
	}
	return customers, nil
}
