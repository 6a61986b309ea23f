package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
)

// TxStore is the set of store operations available inside a transaction
// opened by Repository.WithinTx.
type TxStore interface {
	// LockCartLines locks the caller's cart rows and their products, in
	// product id order, and returns them with current price and stock.
	LockCartLines(ctx context.Context, userID uint) ([]CheckoutLine, error)
	InsertOrder(ctx context.Context, userID uint, total decimal.Decimal, shippingAddress string) (uint, error)
	InsertItems(ctx context.Context, orderID uint, lines []CheckoutLine) error
	// DecrementStock fails with product.ErrInsufficientStock instead of
	// letting stock go negative.
	DecrementStock(ctx context.Context, productID uint, quantity int) error
	ClearCart(ctx context.Context, userID uint) error

	LockOrderStatus(ctx context.Context, orderID uint) (Status, error)
	SetStatus(ctx context.Context, orderID uint, status Status) error
	// RestockItems returns every item of the order to stock and reports
	// the affected product ids.
	RestockItems(ctx context.Context, orderID uint) ([]uint, error)
}

type txStore struct {
	tx *sql.Tx
}

func (s *txStore) LockCartLines(ctx context.Context, userID uint) ([]CheckoutLine, error) {
	rows, err := s.tx.QueryContext(ctx, `
		SELECT p.id, p.name, p.price, p.stock_quantity, c.quantity
		FROM cart c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY p.id
		FOR UPDATE
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []CheckoutLine
	for rows.Next() {
		var l CheckoutLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Price, &l.Stock, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (s *txStore) InsertOrder(ctx context.Context, userID uint, total decimal.Decimal, shippingAddress string) (uint, error) {
	var id uint
	err := s.tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, total_amount, status, shipping_address)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, userID, total, string(StatusPending), shippingAddress).Scan(&id)
	return id, err
}

func (s *txStore) InsertItems(ctx context.Context, orderID uint, lines []CheckoutLine) error {
	for _, l := range lines {
		_, err := s.tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)
		`, orderID, l.ProductID, l.Quantity, l.Price)
		if err != nil {
			return fmt.Errorf("insert item for product %d: %w", l.ProductID, err)
		}
	}
	return nil
}

func (s *txStore) DecrementStock(ctx context.Context, productID uint, quantity int) error {
	res, err := s.tx.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		WHERE id = $2 AND stock_quantity >= $1
	`, quantity, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return s.stockError(ctx, productID, quantity)
	}
	return nil
}

// stockError reports the product's current name and stock after a
// conditional decrement matched no row.
func (s *txStore) stockError(ctx context.Context, productID uint, quantity int) error {
	se := &product.StockError{ProductID: productID, Requested: quantity}
	err := s.tx.QueryRowContext(ctx,
		`SELECT name, stock_quantity FROM products WHERE id = $1`, productID,
	).Scan(&se.ProductName, &se.Available)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return se
}

func (s *txStore) ClearCart(ctx context.Context, userID uint) error {
	_, err := s.tx.ExecContext(ctx, `DELETE FROM cart WHERE user_id = $1`, userID)
	return err
}

func (s *txStore) LockOrderStatus(ctx context.Context, orderID uint) (Status, error) {
	var st Status
	err := s.tx.QueryRowContext(ctx,
		`SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID,
	).Scan(&st)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	return st, err
}

func (s *txStore) SetStatus(ctx context.Context, orderID uint, status Status) error {
	_, err := s.tx.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), orderID,
	)
	return err
}

func (s *txStore) RestockItems(ctx context.Context, orderID uint) ([]uint, error) {
	rows, err := s.tx.QueryContext(ctx, `
		UPDATE products p
		SET stock_quantity = p.stock_quantity + oi.quantity, updated_at = NOW()
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id
		RETURNING p.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
