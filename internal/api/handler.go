package api

import (
	"context"
	"strconv"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/category"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Users      user.Service
	Categories category.Service
	Products   product.Service
	Carts      cart.Service
	Checkout   order.Engine
	Orders     order.Service
	DB         Pinger
	Metrics    *metrics.Checkout
	// QueryTimeout bounds the store work of a single request. Zero disables it.
	QueryTimeout time.Duration
}

type Handler struct {
	users      user.Service
	categories category.Service
	products   product.Service
	carts      cart.Service
	checkout   order.Engine
	orders     order.Service
	db         Pinger
	metrics    *metrics.Checkout

	queryTimeout time.Duration
}

func NewHandler(d Deps) *Handler {
	m := d.Metrics
	if m == nil {
		m = metrics.NewCheckout()
	}
	return &Handler{
		users:      d.Users,
		categories: d.Categories,
		products:   d.Products,
		carts:      d.Carts,
		checkout:   d.Checkout,
		orders:     d.Orders,
		db:         d.DB,
		metrics:    m,

		queryTimeout: d.QueryTimeout,
	}
}

func pathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// queryInt returns 0 when the parameter is absent or not a number so the
// services fall back to their defaults.
func queryInt(c *gin.Context, name string) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return n
}
