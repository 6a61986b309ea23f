package product

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrInvalidCategory   = errors.New("invalid category ID")
	ErrProductInOrders   = errors.New("cannot delete product that has been ordered, consider marking it as out of stock instead")
	ErrInvalidProduct    = errors.New("invalid product input")
)

// StockError reports a line that asks for more units than are available.
// It matches ErrInsufficientStock with errors.Is.
type StockError struct {
	ProductID   uint
	ProductName string
	Available   int
	Requested   int
}

func (e *StockError) Error() string {
	if e.ProductName == "" {
		return fmt.Sprintf("insufficient stock for product %d: only %d available", e.ProductID, e.Available)
	}
	return fmt.Sprintf("insufficient stock for %s: only %d available", e.ProductName, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
