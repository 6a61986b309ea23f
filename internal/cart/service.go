package cart

import (
	"context"

	"storefront-be/internal/logger"
	"storefront-be/internal/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductReader looks up live product data.
type ProductReader interface {
	GetByID(ctx context.Context, id uint) (*product.Product, error)
}

// Service is the cart store. Stock checks here are advisory; checkout
// re-validates under lock.
type Service interface {
	AddItem(ctx context.Context, userID, productID uint, quantity int) (*AddResult, error)
	UpdateItem(ctx context.Context, userID, cartID uint, quantity int) error
	RemoveItem(ctx context.Context, userID, cartID uint) error
	ListCart(ctx context.Context, userID uint) (*Cart, error)
}

type service struct {
	repo     Repository
	products ProductReader
}

func NewService(repo Repository, products ProductReader) Service {
	return &service{repo: repo, products: products}
}

func (s *service) AddItem(ctx context.Context, userID, productID uint, quantity int) (*AddResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Uint("product_id", productID),
	)

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if p.StockQuantity < quantity {
		return nil, &product.StockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.StockQuantity,
			Requested:   quantity,
		}
	}

	existing, err := s.repo.GetItemByProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	if existing != nil && p.StockQuantity < existing.Quantity+quantity {
		log.Warn("add to cart exceeds stock",
			zap.Int("in_cart", existing.Quantity),
			zap.Int("requested", quantity),
			zap.Int("stock", p.StockQuantity),
		)
		return nil, &product.StockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.StockQuantity - existing.Quantity,
			Requested:   quantity,
		}
	}

	item, err := s.repo.AddQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		return &AddResult{Action: ActionAdded, Quantity: item.Quantity}, nil
	}
	return &AddResult{Action: ActionUpdated, Quantity: item.Quantity}, nil
}

func (s *service) UpdateItem(ctx context.Context, userID, cartID uint, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	item, err := s.repo.GetItem(ctx, userID, cartID)
	if err != nil {
		return err
	}

	p, err := s.products.GetByID(ctx, item.ProductID)
	if err != nil {
		return err
	}

	if p.StockQuantity < quantity {
		return &product.StockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.StockQuantity,
			Requested:   quantity,
		}
	}

	return s.repo.SetQuantity(ctx, userID, cartID, quantity)
}

func (s *service) RemoveItem(ctx context.Context, userID, cartID uint) error {
	return s.repo.Delete(ctx, userID, cartID)
}

func (s *service) ListCart(ctx context.Context, userID uint) (*Cart, error) {
	lines, err := s.repo.ListLines(ctx, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list cart",
			zap.String("layer", "service"),
			zap.Error(err),
		)
		return nil, err
	}

	total := decimal.Zero
	quantity := 0
	for i := range lines {
		lines[i].Subtotal = lines[i].Price.Mul(decimal.NewFromInt(int64(lines[i].Quantity)))
		total = total.Add(lines[i].Subtotal)
		quantity += lines[i].Quantity
	}

	return &Cart{
		Items: lines,
		Summary: Summary{
			TotalItems:    len(lines),
			TotalQuantity: quantity,
			TotalAmount:   total.StringFixed(2),
		},
	}, nil
}
