package order

import (
	"context"
	"errors"
	"time"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/product"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

const (
	defaultMyOrdersLimit  = 10
	defaultAdminListLimit = 20
	maxListLimit          = 100

	defaultQueryTimeout = 5 * time.Second
)

// Caller is the principal a query runs on behalf of.
type Caller struct {
	UserID  uint
	IsAdmin bool
}

type Service interface {
	GetMyOrders(ctx context.Context, userID uint, filter ListFilter) (*ListResult, error)
	GetOrderDetail(ctx context.Context, orderID uint, caller Caller) (*Detail, error)
	UpdateStatus(ctx context.Context, orderID uint, next Status) (*StatusChange, error)
	ListAllOrders(ctx context.Context, filter ListFilter) (*ListResult, error)
}

type ServiceOption func(*service)

// WithQueryTimeout bounds every store call the service makes.
func WithQueryTimeout(d time.Duration) ServiceOption {
	return func(s *service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

type service struct {
	repo    Repository
	cache   ProductInvalidator
	timeout time.Duration
}

func NewService(repo Repository, cache ProductInvalidator, opts ...ServiceOption) Service {
	if cache == nil {
		cache = product.NewNoopCache()
	}
	s := &service{repo: repo, cache: cache, timeout: defaultQueryTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// storeErr reports contention and expired deadlines as ErrStoreBusy.
func storeErr(ctx context.Context, err error) error {
	if db.IsRetryable(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrStoreBusy
	}
	return err
}

func (s *service) GetMyOrders(ctx context.Context, userID uint, filter ListFilter) (*ListResult, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit, defaultMyOrdersLimit, maxListLimit)
	filter.SortBy, filter.SortOrder = "created_at", "DESC"

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	orders, total, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list user orders",
			zap.String("layer", "service"),
			zap.Error(err),
		)
		return nil, storeErr(ctx, err)
	}

	return &ListResult{Orders: orders, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// GetOrderDetail hides orders owned by someone else behind ErrOrderNotFound
// unless the caller is an admin.
func (s *service) GetOrderDetail(ctx context.Context, orderID uint, caller Caller) (*Detail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, storeErr(ctx, err)
	}
	if !caller.IsAdmin && o.UserID != caller.UserID {
		return nil, ErrOrderNotFound
	}

	items, err := s.repo.GetItems(ctx, orderID)
	if err != nil {
		return nil, storeErr(ctx, err)
	}

	return &Detail{Order: *o, Items: items}, nil
}

// UpdateStatus moves an order along its lifecycle. Cancelling returns the
// order's items to stock in the same transaction as the status change.
func (s *service) UpdateStatus(ctx context.Context, orderID uint, next Status) (*StatusChange, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Uint("order_id", orderID),
		zap.String("new_status", string(next)),
	)

	if _, err := ParseStatus(string(next)); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		previous  Status
		restocked []uint
	)
	err := s.repo.WithinTx(ctx, func(tx TxStore) error {
		current, err := tx.LockOrderStatus(ctx, orderID)
		if err != nil {
			return err
		}
		previous = current

		if current == next {
			return nil
		}
		if !current.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		if err := tx.SetStatus(ctx, orderID, next); err != nil {
			return err
		}

		if next == StatusCancelled {
			ids, err := tx.RestockItems(ctx, orderID)
			if err != nil {
				return err
			}
			restocked = ids
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrOrderNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, ErrInvalidTransition):
			log.Warn("status transition rejected", zap.String("previous_status", string(previous)))
			return nil, ErrInvalidTransition
		case db.IsRetryable(err), errors.Is(ctx.Err(), context.DeadlineExceeded):
			log.Warn("status update hit lock contention", zap.Error(err))
			return nil, ErrStoreBusy
		}
		log.Error("status update failed", zap.Error(err))
		return nil, ErrTransactionFailed
	}

	if len(restocked) > 0 {
		s.cache.Invalidate(context.WithoutCancel(ctx), restocked...)
	}

	log.Info("order status updated", zap.String("previous_status", string(previous)))

	return &StatusChange{OrderID: orderID, NewStatus: next, PreviousStatus: previous}, nil
}

func (s *service) ListAllOrders(ctx context.Context, filter ListFilter) (*ListResult, error) {
	filter.Page, filter.Limit = utils.NormalizePage(filter.Page, filter.Limit, defaultAdminListLimit, maxListLimit)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	orders, total, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list orders",
			zap.String("layer", "service"),
			zap.Error(err),
		)
		return nil, storeErr(ctx, err)
	}

	return &ListResult{Orders: orders, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
