package cart

import (
	"context"
	"database/sql"
	"errors"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	GetItem(ctx context.Context, userID, cartID uint) (*CartItem, error)
	GetItemByProduct(ctx context.Context, userID, productID uint) (*CartItem, error)
	AddQuantity(ctx context.Context, userID, productID uint, quantity int) (*CartItem, error)
	SetQuantity(ctx context.Context, userID, cartID uint, quantity int) error
	Delete(ctx context.Context, userID, cartID uint) error
	ListLines(ctx context.Context, userID uint) ([]Line, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) scanItem(row *sql.Row) (*CartItem, error) {
	var item CartItem
	err := row.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItem returns the cart row only when it belongs to userID.
func (r *repository) GetItem(ctx context.Context, userID, cartID uint) (*CartItem, error) {
	item, err := r.scanItem(r.db.QueryRowContext(ctx, `
		SELECT id, user_id, product_id, quantity, created_at
		FROM cart
		WHERE id = $1 AND user_id = $2
	`, cartID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartItemNotFound
	}
	return item, err
}

// GetItemByProduct returns nil without error when the product is not in
// the cart yet.
func (r *repository) GetItemByProduct(ctx context.Context, userID, productID uint) (*CartItem, error) {
	item, err := r.scanItem(r.db.QueryRowContext(ctx, `
		SELECT id, user_id, product_id, quantity, created_at
		FROM cart
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

// AddQuantity inserts the row or, if the pair already exists, adds to its
// quantity in the same statement.
func (r *repository) AddQuantity(ctx context.Context, userID, productID uint, quantity int) (*CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "AddQuantity"),
		zap.Uint("product_id", productID),
	)

	item, err := r.scanItem(r.db.QueryRowContext(ctx, `
		INSERT INTO cart (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart.quantity + EXCLUDED.quantity
		RETURNING id, user_id, product_id, quantity, created_at
	`, userID, productID, quantity))
	if err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return nil, err
	}

	log.Debug("cart item saved", zap.Uint("cart_id", item.ID), zap.Int("quantity", item.Quantity))
	return item, nil
}

func (r *repository) SetQuantity(ctx context.Context, userID, cartID uint, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart SET quantity = $1
		WHERE id = $2 AND user_id = $3
	`, quantity, cartID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, cartID uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart WHERE id = $1 AND user_id = $2`, cartID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *repository) ListLines(ctx context.Context, userID uint) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id,
			c.quantity,
			c.created_at,
			p.id,
			p.name,
			p.price,
			COALESCE(p.image_url, ''),
			p.stock_quantity
		FROM cart c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var l Line
		if err := rows.Scan(
			&l.CartID,
			&l.Quantity,
			&l.AddedAt,
			&l.ProductID,
			&l.ProductName,
			&l.Price,
			&l.ImageURL,
			&l.StockQuantity,
		); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}

	return lines, rows.Err()
}
