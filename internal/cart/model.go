package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ActionAdded   = "added"
	ActionUpdated = "updated"
)

type CartItem struct {
	ID        uint
	UserID    uint
	ProductID uint
	Quantity  int
	CreatedAt time.Time
}

// Line is a cart row joined with the live product it points at.
type Line struct {
	CartID        uint            `json:"cart_id"`
	Quantity      int             `json:"quantity"`
	AddedAt       time.Time       `json:"added_at"`
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type Summary struct {
	TotalItems    int    `json:"totalItems"`
	TotalQuantity int    `json:"totalQuantity"`
	TotalAmount   string `json:"totalAmount"`
}

type Cart struct {
	Items   []Line  `json:"cartItems"`
	Summary Summary `json:"summary"`
}

type AddResult struct {
	Action   string
	Quantity int
}
