package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              uint            `json:"id"`
	UserID          uint            `json:"-"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          Status          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
}

type Item struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Detail struct {
	Order Order  `json:"order"`
	Items []Item `json:"items"`
}

// Summary is one row of an order listing.
type Summary struct {
	ID              uint            `json:"id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          Status          `json:"status"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	TotalItems      int             `json:"total_items"`
	CustomerName    string          `json:"customer_name,omitempty"`
	CustomerEmail   string          `json:"customer_email,omitempty"`
}

// Placed is the result of a successful checkout.
type Placed struct {
	ID              uint            `json:"id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          Status          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
}

type StatusChange struct {
	OrderID        uint   `json:"orderId"`
	NewStatus      Status `json:"newStatus"`
	PreviousStatus Status `json:"previousStatus"`
}

type ListFilter struct {
	Status    Status
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type ListResult struct {
	Orders []Summary
	Total  int
	Page   int
	Limit  int
}

// CheckoutLine is a locked cart row joined with its product as seen inside
// the checkout transaction.
type CheckoutLine struct {
	ProductID uint
	Name      string
	Price     decimal.Decimal
	Stock     int
	Quantity  int
}

func (l CheckoutLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
