package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultCheckoutTimeout = 5 * time.Second

// ProductInvalidator drops cached product data after stock changes.
type ProductInvalidator interface {
	Invalidate(ctx context.Context, ids ...uint)
}

// Engine turns a customer's cart into an order in a single atomic unit.
type Engine interface {
	PlaceOrder(ctx context.Context, userID uint, shippingAddress string) (*Placed, error)
}

type EngineOption func(*engine)

func WithTimeout(d time.Duration) EngineOption {
	return func(e *engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithMetrics(m *metrics.Checkout) EngineOption {
	return func(e *engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

func WithProductCache(c ProductInvalidator) EngineOption {
	return func(e *engine) {
		if c != nil {
			e.cache = c
		}
	}
}

type engine struct {
	repo    Repository
	timeout time.Duration
	metrics *metrics.Checkout
	cache   ProductInvalidator
}

func NewEngine(repo Repository, opts ...EngineOption) Engine {
	e := &engine{
		repo:    repo,
		timeout: defaultCheckoutTimeout,
		metrics: metrics.NewCheckout(),
		cache:   product.NewNoopCache(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PlaceOrder locks the cart lines, re-checks stock, records the order and
// its items at the current prices, decrements stock and clears the cart.
// Either every step commits or none does.
func (e *engine) PlaceOrder(ctx context.Context, userID uint, shippingAddress string) (*Placed, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "engine"),
		zap.String("method", "PlaceOrder"),
		zap.Uint("user_id", userID),
	)

	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, ErrInvalidShippingAddress
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	timer := metrics.StartTimer()

	var (
		placed  *Placed
		touched []uint
	)
	err := e.repo.WithinTx(ctx, func(tx TxStore) error {
		lines, err := tx.LockCartLines(ctx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		total := decimal.Zero
		for _, l := range lines {
			if l.Quantity > l.Stock {
				return &product.StockError{
					ProductID:   l.ProductID,
					ProductName: l.Name,
					Available:   l.Stock,
					Requested:   l.Quantity,
				}
			}
			total = total.Add(l.Subtotal())
		}

		orderID, err := tx.InsertOrder(ctx, userID, total, shippingAddress)
		if err != nil {
			return err
		}

		if err := tx.InsertItems(ctx, orderID, lines); err != nil {
			return err
		}

		ids := make([]uint, 0, len(lines))
		for _, l := range lines {
			if err := tx.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
			ids = append(ids, l.ProductID)
		}

		if err := tx.ClearCart(ctx, userID); err != nil {
			return err
		}

		placed = &Placed{
			ID:              orderID,
			TotalAmount:     total,
			Status:          StatusPending,
			ShippingAddress: shippingAddress,
		}
		touched = ids
		return nil
	})

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = errors.Join(err, context.DeadlineExceeded)
		}
		outcome, classified := classifyCheckoutError(err)
		e.metrics.Observe(outcome, timer.Duration())

		switch outcome {
		case metrics.OutcomeEmptyCart, metrics.OutcomeInsufficientStock:
			log.Warn("checkout rejected", zap.Error(err))
		case metrics.OutcomeBusy:
			log.Warn("checkout hit lock contention", zap.Error(err))
		default:
			log.Error("checkout failed", zap.Error(err))
		}
		return nil, classified
	}

	e.metrics.Observe(metrics.OutcomePlaced, timer.Duration())
	e.cache.Invalidate(context.WithoutCancel(ctx), touched...)

	log.Info("order placed",
		zap.Uint("order_id", placed.ID),
		zap.String("total_amount", placed.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(touched)),
		zap.Duration("duration", timer.Duration()),
	)

	return placed, nil
}

// classifyCheckoutError maps a failure inside the checkout transaction to
// the error the caller sees. Business rejections pass through unchanged.
func classifyCheckoutError(err error) (metrics.Outcome, error) {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return metrics.OutcomeEmptyCart, ErrEmptyCart
	case errors.Is(err, product.ErrInsufficientStock):
		var se *product.StockError
		if errors.As(err, &se) {
			return metrics.OutcomeInsufficientStock, se
		}
		return metrics.OutcomeInsufficientStock, product.ErrInsufficientStock
	case db.IsRetryable(err):
		return metrics.OutcomeBusy, ErrStoreBusy
	default:
		return metrics.OutcomeFailed, ErrTransactionFailed
	}
}
