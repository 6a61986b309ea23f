package category

import (
	"context"
	"strings"

	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, name, description string) (*Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list categories",
			zap.String("layer", "service"),
			zap.Error(err),
		)
		return nil, err
	}
	return categories, nil
}

// Create adds a category. Names are unique; the store's unique index is
// the authority, so no pre-check query is made.
func (s *service) Create(ctx context.Context, name, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCategoryName
	}
	return s.repo.Create(ctx, name, strings.TrimSpace(description))
}
