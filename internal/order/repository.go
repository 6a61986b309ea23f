package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	// WithinTx runs fn in one READ COMMITTED transaction. Row locks taken
	// through the TxStore are held until fn returns.
	WithinTx(ctx context.Context, fn func(tx TxStore) error) error
	ListByUser(ctx context.Context, userID uint, filter ListFilter) ([]Summary, int, error)
	ListAll(ctx context.Context, filter ListFilter) ([]Summary, int, error)
	GetByID(ctx context.Context, orderID uint) (*Order, error)
	GetItems(ctx context.Context, orderID uint) ([]Item, error)
}

type repository struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func NewRepository(conn *sql.DB, lockTimeout time.Duration) Repository {
	return &repository{db: conn, lockTimeout: lockTimeout}
}

func (r *repository) WithinTx(ctx context.Context, fn func(tx TxStore) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelReadCommitted}

	return db.WithTx(ctx, r.db, opts, func(tx *sql.Tx) error {
		if r.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("set lock timeout: %w", err)
			}
		}
		return fn(&txStore{tx: tx})
	})
}

var orderSortColumns = map[string]string{
	"created_at":   "o.created_at",
	"total_amount": "o.total_amount",
	"status":       "o.status",
}

func (r *repository) list(ctx context.Context, userID *uint, filter ListFilter) ([]Summary, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListOrders"),
	)

	var (
		conds []string
		args  []any
	)
	if userID != nil {
		args = append(args, *userID)
		conds = append(conds, fmt.Sprintf("o.user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders o`+where, args...).Scan(&total); err != nil {
		log.Error("failed to count orders", zap.Error(err))
		return nil, 0, err
	}

	column, ok := orderSortColumns[filter.SortBy]
	if !ok {
		column = orderSortColumns["created_at"]
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "ASC") {
		direction = "ASC"
	}

	query := `
		SELECT
			o.id,
			o.total_amount,
			o.status,
			o.shipping_address,
			o.created_at,
			(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS total_items,
			u.name,
			u.email
		FROM orders o
		JOIN users u ON u.id = o.user_id` + where +
		fmt.Sprintf(" ORDER BY %s %s, o.id DESC LIMIT $%d OFFSET $%d", column, direction, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, utils.Offset(filter.Page, filter.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	orders := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(
			&s.ID,
			&s.TotalAmount,
			&s.Status,
			&s.ShippingAddress,
			&s.CreatedAt,
			&s.TotalItems,
			&s.CustomerName,
			&s.CustomerEmail,
		); err != nil {
			return nil, 0, err
		}
		orders = append(orders, s)
	}

	return orders, total, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID uint, filter ListFilter) ([]Summary, int, error) {
	return r.list(ctx, &userID, filter)
}

func (r *repository) ListAll(ctx context.Context, filter ListFilter) ([]Summary, int, error) {
	return r.list(ctx, nil, filter)
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT
			o.id,
			o.user_id,
			o.total_amount,
			o.status,
			o.shipping_address,
			o.created_at,
			o.updated_at,
			u.name,
			u.email,
			COALESCE(u.phone, '')
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
	`, orderID).Scan(
		&o.ID,
		&o.UserID,
		&o.TotalAmount,
		&o.Status,
		&o.ShippingAddress,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) GetItems(ctx context.Context, orderID uint) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			oi.id,
			oi.quantity,
			oi.price,
			p.id,
			p.name,
			COALESCE(p.image_url, '')
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Quantity, &it.Price, &it.ProductID, &it.ProductName, &it.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
