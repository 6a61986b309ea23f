package product

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
	GetByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]Product, int, error)
	Create(ctx context.Context, params CreateProductParams) (*Product, error)
	Update(ctx context.Context, id uint, params UpdateProductParams) (*Product, error)
	Delete(ctx context.Context, id uint) error
	HasOrderItems(ctx context.Context, id uint) (bool, error)
	TopSelling(ctx context.Context, limit int) ([]TopSelling, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const selectProduct = `
	SELECT
		p.id,
		p.name,
		COALESCE(p.description, ''),
		p.price,
		p.stock_quantity,
		p.category_id,
		COALESCE(c.name, ''),
		COALESCE(p.image_url, ''),
		p.created_at,
		p.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.StockQuantity,
		&p.CategoryID,
		&p.CategoryName,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, selectProduct+` WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

var sortColumns = map[string]string{
	"name":       "p.name",
	"price":      "p.price",
	"created_at": "p.created_at",
}

func buildListFilter(opts ListOptions) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		conds = append(conds, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}
	if opts.Category != "" {
		args = append(args, opts.Category)
		conds = append(conds, fmt.Sprintf("c.name = $%d", len(args)))
	}
	if opts.MinPrice != nil {
		args = append(args, *opts.MinPrice)
		conds = append(conds, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if opts.MaxPrice != nil {
		args = append(args, *opts.MaxPrice)
		conds = append(conds, fmt.Sprintf("p.price <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]Product, int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)

	start := time.Now()

	where, args := buildListFilter(opts)

	var total int
	countQuery := `SELECT COUNT(*) FROM products p LEFT JOIN categories c ON c.id = p.category_id` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count products", zap.Error(err))
		return nil, 0, err
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = sortColumns["name"]
	}
	order := "ASC"
	if strings.EqualFold(opts.SortOrder, "DESC") {
		order = "DESC"
	}

	query := selectProduct + where +
		fmt.Sprintf(" ORDER BY %s %s, p.id LIMIT $%d OFFSET $%d", column, order, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, utils.Offset(opts.Page, opts.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]Product, 0, opts.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	log.Debug("products listed",
		zap.Int("count", len(products)),
		zap.Int("total", total),
		zap.Duration("duration", time.Since(start)),
	)

	return products, total, nil
}

func (r *repository) Create(ctx context.Context, params CreateProductParams) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
	)

	var id uint
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, stock_quantity, category_id, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		params.Name,
		params.Description,
		params.Price,
		params.StockQuantity,
		params.CategoryID,
		params.ImageURL,
	).Scan(&id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, ErrInvalidCategory
		}
		log.Error("failed to insert product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.Uint("product_id", id))

	return r.GetByID(ctx, id)
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

// Update applies the non-nil fields of params. Absent fields keep their
// stored value through COALESCE, so the statement text never changes.
func (r *repository) Update(ctx context.Context, id uint, params UpdateProductParams) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Update"),
		zap.Uint("product_id", id),
	)

	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			stock_quantity = COALESCE($4, stock_quantity),
			category_id = COALESCE($5, category_id),
			image_url = COALESCE($6, image_url),
			updated_at = NOW()
		WHERE id = $7
	`,
		nullable(params.Name),
		nullable(params.Description),
		nullable(params.Price),
		nullable(params.StockQuantity),
		nullable(params.CategoryID),
		nullable(params.ImageURL),
		id,
	)
	if err != nil {
		switch {
		case db.IsForeignKeyViolation(err):
			return nil, ErrInvalidCategory
		case db.IsCheckViolation(err):
			return nil, ErrInvalidProduct
		}
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrProductNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrProductInOrders
		}
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) HasOrderItems(ctx context.Context, id uint) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM order_items WHERE product_id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

// TopSelling ranks products by units sold, ignoring cancelled orders.
func (r *repository) TopSelling(ctx context.Context, limit int) ([]TopSelling, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			p.id,
			p.name,
			p.price,
			SUM(oi.quantity) AS total_sold,
			SUM(oi.quantity * oi.price) AS total_revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.status <> 'cancelled'
		GROUP BY p.id, p.name, p.price
		ORDER BY total_sold DESC, p.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TopSelling
	for rows.Next() {
		var t TopSelling
		if err := rows.Scan(&t.ID, &t.Name, &t.Price, &t.TotalSold, &t.TotalRevenue); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
