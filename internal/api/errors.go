package api

import (
	"context"
	"errors"
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/category"
	"storefront-be/internal/logger"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errInvalidID      = errors.New("invalid id")
	errInvalidPayload = errors.New("invalid request payload")
	errUnauthorized   = errors.New("access token required")
	errForbidden      = errors.New("insufficient permissions")
)

type errorResponse struct {
	Message string `json:"message"`
}

// statusOf maps a domain error to its HTTP status. The second result is
// false for errors that must not be shown to the client.
func statusOf(err error) (int, bool) {
	switch {
	case errors.Is(err, errInvalidID),
		errors.Is(err, errInvalidPayload),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, category.ErrInvalidCategoryName),
		errors.Is(err, category.ErrCategoryExists),
		errors.Is(err, user.ErrInvalidInput),
		errors.Is(err, user.ErrEmailExists),
		errors.Is(err, product.ErrInsufficientStock),
		errors.Is(err, product.ErrNoFieldsToUpdate),
		errors.Is(err, product.ErrInvalidCategory),
		errors.Is(err, product.ErrInvalidProduct),
		errors.Is(err, product.ErrProductInOrders),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidShippingAddress):
		return http.StatusBadRequest, true

	case errors.Is(err, errUnauthorized),
		errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, true

	case errors.Is(err, errForbidden):
		return http.StatusForbidden, true

	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound, true

	case errors.Is(err, order.ErrInvalidTransition):
		return http.StatusConflict, true

	case errors.Is(err, order.ErrStoreBusy):
		return http.StatusServiceUnavailable, true
	}

	return http.StatusInternalServerError, false
}

// respondError writes err as a JSON message and aborts the chain.
func respondError(c *gin.Context, err error) {
	status, public := statusOf(err)

	// A store call cut off by the request deadline is reported as contention.
	if !public && errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
		logger.FromCtx(c.Request.Context()).Warn("request deadline exceeded",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		status, public, err = http.StatusServiceUnavailable, true, order.ErrStoreBusy
	}

	msg := err.Error()
	if !public {
		logger.FromCtx(c.Request.Context()).Error("unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		msg = "internal server error"
	}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}

	c.AbortWithStatusJSON(status, errorResponse{Message: msg})
}
