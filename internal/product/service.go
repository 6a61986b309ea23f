package product

import (
	"context"
	"strings"
	"time"

	"storefront-be/internal/logger"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// CategoryChecker reports whether a category id exists.
type CategoryChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type Service interface {
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
	GetByID(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, params CreateProductParams) (*Product, error)
	Update(ctx context.Context, id uint, params UpdateProductParams) (*Product, error)
	Delete(ctx context.Context, id uint) error
	TopSelling(ctx context.Context, limit int) ([]TopSelling, error)
}

type service struct {
	repo       Repository
	categories CategoryChecker
	cache      Cache
}

func NewService(repo Repository, categories CategoryChecker, cache Cache) Service {
	if cache == nil {
		cache = NewNoopCache()
	}
	return &service{repo: repo, categories: categories, cache: cache}
}

func (s *service) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "List"),
	)

	start := time.Now()

	opts.Page, opts.Limit = utils.NormalizePage(opts.Page, opts.Limit, defaultListLimit, maxListLimit)

	products, total, err := s.repo.List(ctx, opts)
	if err != nil {
		log.Error("failed to fetch product list",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}

	return &ListResult{
		Items: products,
		Total: total,
		Page:  opts.Page,
		Limit: opts.Limit,
	}, nil
}

// guardedFill is implemented by caches that can refuse a stale fill.
type guardedFill interface {
	Epoch() uint64
	SetIfCurrent(ctx context.Context, p Product, epoch uint64) bool
}

func (s *service) GetByID(ctx context.Context, id uint) (*Product, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}

	guard, guarded := s.cache.(guardedFill)
	var epoch uint64
	if guarded {
		epoch = guard.Epoch()
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if guarded {
		guard.SetIfCurrent(ctx, *p, epoch)
	} else {
		s.cache.Set(ctx, *p)
	}
	return p, nil
}

func (s *service) checkCategory(ctx context.Context, id uint) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCategory
	}
	return nil
}

func (s *service) Create(ctx context.Context, params CreateProductParams) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" || params.Price.IsNegative() || params.StockQuantity < 0 {
		return nil, ErrInvalidProduct
	}

	if err := s.checkCategory(ctx, params.CategoryID); err != nil {
		log.Warn("create product rejected", zap.Uint("category_id", params.CategoryID), zap.Error(err))
		return nil, err
	}

	return s.repo.Create(ctx, params)
}

func (s *service) Update(ctx context.Context, id uint, params UpdateProductParams) (*Product, error) {
	if params.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return nil, ErrInvalidProduct
	}
	if params.Price != nil && params.Price.IsNegative() {
		return nil, ErrInvalidProduct
	}
	if params.StockQuantity != nil && *params.StockQuantity < 0 {
		return nil, ErrInvalidProduct
	}

	if params.CategoryID != nil {
		if err := s.checkCategory(ctx, *params.CategoryID); err != nil {
			return nil, err
		}
	}

	p, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	return p, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Delete"),
		zap.Uint("product_id", id),
	)

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	ordered, err := s.repo.HasOrderItems(ctx, id)
	if err != nil {
		return err
	}
	if ordered {
		log.Warn("delete rejected, product has order items")
		return ErrProductInOrders
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	log.Info("product deleted")
	return nil
}

func (s *service) TopSelling(ctx context.Context, limit int) ([]TopSelling, error) {
	_, limit = utils.NormalizePage(1, limit, defaultListLimit, maxListLimit)
	return s.repo.TopSelling(ctx, limit)
}
