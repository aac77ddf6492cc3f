package upstream

import (
	"context"
	"net/http"
)

type cartEnvelope struct {
	Items []CartItem `json:"items"`
}

// FetchCart loads the authoritative cart for the bearer of the token.
func (c *Client) FetchCart(ctx context.Context, token string) ([]CartItem, error) {
	var payload cartEnvelope
	if err := c.call(ctx, token, http.MethodGet, "/api/cart", nil, &payload, "Unable to load cart"); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// UpdateQuantity sets the quantity of one line and returns the full
// refreshed item set the server responds with.
func (c *Client) UpdateQuantity(ctx context.Context, token string, bookID, quantity int64) ([]CartItem, error) {
	body := map[string]int64{
		"book_id":  bookID,
		"quantity": quantity,
	}
	var payload cartEnvelope
	if err := c.call(ctx, token, http.MethodPut, "/api/cart/quantity", body, &payload, "Unable to update quantity"); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// RemoveItem deletes one line and returns the refreshed item set.
func (c *Client) RemoveItem(ctx context.Context, token string, bookID int64) ([]CartItem, error) {
	body := map[string]int64{"book_id": bookID}
	var payload cartEnvelope
	if err := c.call(ctx, token, http.MethodDelete, "/api/cart/remove", body, &payload, "Unable to remove item"); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// AddItem puts a book into the cart.
func (c *Client) AddItem(ctx context.Context, token string, bookID, quantity int64) error {
	body := map[string]int64{
		"book_id":  bookID,
		"quantity": quantity,
	}
	return c.call(ctx, token, http.MethodPost, "/api/cart/add", body, nil, "Unable to add to cart")
}

type checkoutRequest struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
}

type checkoutEnvelope struct {
	Order *PlacedOrder `json:"order"`
}

// PlaceOrder submits the single order-placement request.
func (c *Client) PlaceOrder(ctx context.Context, token string, address ShippingAddress, paymentMethod string) (*PlacedOrder, error) {
	body := checkoutRequest{ShippingAddress: address, PaymentMethod: paymentMethod}
	var payload checkoutEnvelope
	if err := c.call(ctx, token, http.MethodPost, "/api/cart/checkout", body, &payload, "Unable to place order"); err != nil {
		return nil, err
	}
	return payload.Order, nil
}
