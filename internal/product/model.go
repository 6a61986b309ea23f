package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryID    uint            `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	ImageURL      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ListOptions filters and pages the catalog listing. Category matches the
// category name exactly.
type ListOptions struct {
	Search    string
	Category  string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type ListResult struct {
	Items []Product
	Total int
	Page  int
	Limit int
}

type CreateProductParams struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	CategoryID    uint
	ImageURL      string
}

// UpdateProductParams is a partial update; nil fields are left untouched.
type UpdateProductParams struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
	CategoryID    *uint
	ImageURL      *string
}

func (p UpdateProductParams) IsEmpty() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Price == nil &&
		p.StockQuantity == nil &&
		p.CategoryID == nil &&
		p.ImageURL == nil
}

type TopSelling struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	TotalSold    int             `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}
