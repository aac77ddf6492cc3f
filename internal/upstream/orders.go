package upstream

import (
	"context"
	"fmt"
	"net/http"
)

type ordersEnvelope struct {
	Orders []Order `json:"orders"`
}

type orderEnvelope struct {
	Order *Order `json:"order"`
}

// ListOrders returns the caller's order history. With scopeAll set the
// backend returns every order in the system (privileged view).
func (c *Client) ListOrders(ctx context.Context, token string, scopeAll bool) ([]Order, error) {
	path := "/api/orders"
	if scopeAll {
		path += "?scope=all"
	}
	var payload ordersEnvelope
	if err := c.call(ctx, token, http.MethodGet, path, nil, &payload, "Unable to load order history"); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

// GetOrder fetches one order with its line items.
func (c *Client) GetOrder(ctx context.Context, token string, id int64) (*Order, error) {
	var payload orderEnvelope
	path := fmt.Sprintf("/api/orders/%d", id)
	if err := c.call(ctx, token, http.MethodGet, path, nil, &payload, "Unable to load order"); err != nil {
		return nil, err
	}
	return payload.Order, nil
}

// ListDashboardOrders returns the admin dashboard's order feed.
func (c *Client) ListDashboardOrders(ctx context.Context, token string) ([]Order, error) {
	var payload ordersEnvelope
	if err := c.call(ctx, token, http.MethodGet, "/api/admin/dashboard/orders", nil, &payload, "Unable to load dashboard orders"); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}
