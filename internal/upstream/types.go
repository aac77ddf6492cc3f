package upstream

import "github.com/shopspring/decimal"

// CartItem is one line of the server-owned cart. The gateway never
// fabricates these; every mutation response replaces the whole set.
type CartItem struct {
	ID       int64           `json:"id"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Stock    *int64          `json:"stock"`
	ImageURL string          `json:"imageUrl"`
}

// Book is a catalog entry as listed by /api/books.
type Book struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	AuthorName   string          `json:"author_name"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int64           `json:"stock"`
	Image        string          `json:"image"`
	SalesCount   int64           `json:"sales_count"`
	Rating       float64         `json:"rating,omitempty"`
}

// User is the authenticated profile snapshot from /api/auth/profile.
type User struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// Order is one order-history row.
type Order struct {
	ID          int64           `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	OrderDate   string          `json:"orderDate"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
	Items       []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	BookID   int64           `json:"book_id"`
	Title    string          `json:"title"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// PlacedOrder is the acknowledgement returned by /api/cart/checkout.
type PlacedOrder struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"orderNumber"`
}

// ShippingAddress is the order-placement address payload. Name is the
// joined first/last name; the rest is forwarded verbatim.
type ShippingAddress struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Author and Category are the admin-managed reference entities.
type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Customer is an admin-visible account record.
type Customer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}
