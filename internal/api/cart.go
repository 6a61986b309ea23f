package api

import (
	"net/http"

	"storefront-be/internal/cart"

	"github.com/gin-gonic/gin"
)

type addToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type updateCartRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h *Handler) GetCart(c *gin.Context) {
	res, err := h.carts.ListCart(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AddToCart answers 201 whether a new line was created or an existing one
// was incremented; action tells the two apart.
func (h *Handler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.carts.AddItem(c.Request.Context(), currentUser(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	if res.Action == cart.ActionUpdated {
		c.JSON(http.StatusCreated, gin.H{
			"message":     "Cart item updated successfully",
			"action":      res.Action,
			"newQuantity": res.Quantity,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Item added to cart successfully",
		"action":   res.Action,
		"quantity": res.Quantity,
	})
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	cartID, err := pathID(c, "cartId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateCartRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.carts.UpdateItem(c.Request.Context(), currentUser(c), cartID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Cart item quantity updated successfully",
		"newQuantity": req.Quantity,
	})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	cartID, err := pathID(c, "cartId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.carts.RemoveItem(c.Request.Context(), currentUser(c), cartID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart successfully"})
}
