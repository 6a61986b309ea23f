package api

import (
	"context"

	"storefront-be/internal/cart"
	"storefront-be/internal/category"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockUsers struct{ mock.Mock }

func (m *MockUsers) Register(ctx context.Context, p user.RegisterParams) (string, *user.User, error) {
	args := m.Called(ctx, p)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*user.User), args.Error(2)
}

func (m *MockUsers) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*user.User), args.Error(2)
}

type MockCategories struct{ mock.Mock }

func (m *MockCategories) List(ctx context.Context) ([]category.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]category.Category), args.Error(1)
}

func (m *MockCategories) Create(ctx context.Context, name, description string) (*category.Category, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

type MockProducts struct{ mock.Mock }

func (m *MockProducts) List(ctx context.Context, opts product.ListOptions) (*product.ListResult, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.ListResult), args.Error(1)
}

func (m *MockProducts) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProducts) Create(ctx context.Context, p product.CreateProductParams) (*product.Product, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProducts) Update(ctx context.Context, id uint, p product.UpdateProductParams) (*product.Product, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProducts) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProducts) TopSelling(ctx context.Context, limit int) ([]product.TopSelling, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.TopSelling), args.Error(1)
}

type MockCarts struct{ mock.Mock }

func (m *MockCarts) AddItem(ctx context.Context, userID, productID uint, qty int) (*cart.AddResult, error) {
	args := m.Called(ctx, userID, productID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.AddResult), args.Error(1)
}

func (m *MockCarts) UpdateItem(ctx context.Context, userID, cartID uint, qty int) error {
	return m.Called(ctx, userID, cartID, qty).Error(0)
}

func (m *MockCarts) RemoveItem(ctx context.Context, userID, cartID uint) error {
	return m.Called(ctx, userID, cartID).Error(0)
}

func (m *MockCarts) ListCart(ctx context.Context, userID uint) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

type MockEngine struct{ mock.Mock }

func (m *MockEngine) PlaceOrder(ctx context.Context, userID uint, addr string) (*order.Placed, error) {
	args := m.Called(ctx, userID, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Placed), args.Error(1)
}

type MockOrders struct{ mock.Mock }

func (m *MockOrders) GetMyOrders(ctx context.Context, userID uint, f order.ListFilter) (*order.ListResult, error) {
	args := m.Called(ctx, userID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ListResult), args.Error(1)
}

func (m *MockOrders) GetOrderDetail(ctx context.Context, id uint, caller order.Caller) (*order.Detail, error) {
	args := m.Called(ctx, id, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Detail), args.Error(1)
}

func (m *MockOrders) UpdateStatus(ctx context.Context, id uint, next order.Status) (*order.StatusChange, error) {
	args := m.Called(ctx, id, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.StatusChange), args.Error(1)
}

func (m *MockOrders) ListAllOrders(ctx context.Context, f order.ListFilter) (*order.ListResult, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ListResult), args.Error(1)
}

type MockPinger struct{ mock.Mock }

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
