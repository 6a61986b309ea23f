package api

import (
	"net/http"

	"storefront-be/internal/order"
	"storefront-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type placeOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type orderPagination struct {
	utils.Pagination
	TotalOrders int `json:"totalOrders"`
}

type statusResponse struct {
	Message string `json:"message"`
	*order.StatusChange
}

func listResponse(res *order.ListResult) gin.H {
	return gin.H{
		"orders": res.Orders,
		"pagination": orderPagination{
			Pagination:  utils.NewPagination(res.Page, res.Limit, res.Total),
			TotalOrders: res.Total,
		},
	}
}

// statusFilter reads the optional status query parameter.
func statusFilter(c *gin.Context) (order.Status, error) {
	raw := c.Query("status")
	if raw == "" {
		return "", nil
	}
	return order.ParseStatus(raw)
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	placed, err := h.checkout.PlaceOrder(c.Request.Context(), currentUser(c), req.ShippingAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   placed,
	})
}

func (h *Handler) MyOrders(c *gin.Context) {
	status, err := statusFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.orders.GetMyOrders(c.Request.Context(), currentUser(c), order.ListFilter{
		Status: status,
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(res))
}

func (h *Handler) AllOrders(c *gin.Context) {
	status, err := statusFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.orders.ListAllOrders(c.Request.Context(), order.ListFilter{
		Status:    status,
		Page:      queryInt(c, "page"),
		Limit:     queryInt(c, "limit"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse(res))
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := pathID(c, "orderId")
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := h.orders.GetOrderDetail(c.Request.Context(), id, order.Caller{
		UserID:  currentUser(c),
		IsAdmin: isAdmin(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := pathID(c, "orderId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	change, err := h.orders.UpdateStatus(c.Request.Context(), id, order.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{
		Message:      "Order status updated successfully",
		StatusChange: change,
	})
}
