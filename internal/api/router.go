package api

import (
	"storefront-be/internal/auth"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the REST surface. The principal is expected in the
// request context, placed there by the auth middleware wrapping the engine.
// mw runs before every route, including unmatched preflight requests.
func NewRouter(h *Handler, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw...)
	if h.queryTimeout > 0 {
		r.Use(storeTimeout(h.queryTimeout))
	}

	authed := RequireAuth()
	admin := RequireRole(auth.RoleAdmin)
	customer := RequireRole(auth.RoleCustomer)

	r.GET("/health", h.Health)
	r.GET("/metrics", authed, admin, h.Metrics)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	categories := r.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", authed, admin, h.CreateCategory)
	}

	products := r.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/admin/top-selling", authed, admin, h.TopSelling)
		products.GET("/:id", h.GetProduct)
		products.POST("", authed, admin, h.CreateProduct)
		products.PUT("/:id", authed, admin, h.UpdateProduct)
		products.DELETE("/:id", authed, admin, h.DeleteProduct)
	}

	carts := r.Group("/cart", authed, customer)
	{
		carts.GET("", h.GetCart)
		carts.POST("/add", h.AddToCart)
		carts.PUT("/update/:cartId", h.UpdateCartItem)
		carts.DELETE("/remove/:cartId", h.RemoveCartItem)
	}

	orders := r.Group("/orders", authed)
	{
		orders.POST("/place", customer, h.PlaceOrder)
		orders.GET("/my-orders", customer, h.MyOrders)
		orders.GET("/admin/all", admin, h.AllOrders)
		orders.GET("/:orderId", h.GetOrder)
		orders.PUT("/:orderId/status", admin, h.UpdateOrderStatus)
	}

	return r
}
